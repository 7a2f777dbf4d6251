package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// SubmissionMixin places a row in the global event order and ties it to
// the form submission that produced it. A submission with retries yields
// several rows sharing one submission_id.
type SubmissionMixin struct {
	mixin.Schema
}

func (SubmissionMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Unique().
			Immutable().
			Comment("Global order across all rows, from the global_sequence counter"),
		field.Time("timestamp").
			Default(func() time.Time { return time.Now().UTC() }).
			Immutable().
			Comment("When the attempt finished, UTC"),
		field.String("submission_id").
			NotEmpty().
			Immutable().
			Comment("UUID shared by every attempt of one submission"),
	}
}

// Sequence is unique and needs no extra index.
func (SubmissionMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("timestamp"),
		index.Fields("submission_id"),
	}
}
