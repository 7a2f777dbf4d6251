package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const predictionEventsTableName = "prediction_events"

var (
	// predictionEventsColumns holds the columns of the prediction_events table.
	predictionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "submission_id", Type: field.TypeString},
		{Name: "endpoint", Type: field.TypeString},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "status_code", Type: field.TypeInt, Default: 0},
		{Name: "predicted_yield", Type: field.TypeFloat64, Nullable: true},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
	}

	// predictionEventsTable records one row per round trip to the
	// prediction service.
	predictionEventsTable = &schema.Table{
		Name:       predictionEventsTableName,
		Columns:    predictionEventsColumns,
		PrimaryKey: []*schema.Column{predictionEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "predictionevent_timestamp", Unique: false, Columns: []*schema.Column{predictionEventsColumns[2]}},
			{Name: "predictionevent_submission_id", Unique: false, Columns: []*schema.Column{predictionEventsColumns[3]}},
			{Name: "predictionevent_success", Unique: false, Columns: []*schema.Column{predictionEventsColumns[10]}},
		},
	}

	tables = []*schema.Table{predictionEventsTable}
)

// migrate creates or upgrades every table the store owns.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}
