package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PredictionEvent records one round trip to the prediction service.
type PredictionEvent struct {
	ent.Schema
}

func (PredictionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{SubmissionMixin{}}
}

func (PredictionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("endpoint").
			Comment("URL the request was sent to"),
		field.Text("request_body").
			Comment("JSON body as sent"),
		field.Text("response_body").
			Default("").
			Comment("Raw response body, empty when none arrived"),
		field.Int("status_code").
			Default(0).
			Comment("HTTP status, 0 on transport failure"),
		field.Float("predicted_yield").
			Optional().
			Nillable().
			Comment("Parsed prediction, null unless the attempt succeeded"),
		field.Int64("latency_ms").
			Default(0).
			Comment("Wall-clock time for the request"),
		field.Bool("success").
			Comment("Whether a prediction was obtained"),
		field.String("error_message").
			Default("").
			Comment("Error message if failed"),
	}
}

func (PredictionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("success"),
	}
}
