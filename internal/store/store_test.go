package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr(v float64) *float64 { return &v }

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Driver() == nil {
		t.Fatal("expected non-nil ent driver")
	}
}

func TestOpenFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cropyield.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by TestOpenFileDatabase.
		{"foreign_keys", "1"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"app.db", "app.db?_pragma=foreign_keys(1)"},
		{"file::memory:?cache=shared", "file::memory:?cache=shared&_pragma=foreign_keys(1)"},
		{"app.db?_pragma=foreign_keys(0)", "app.db?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		if got := withForeignKeys(tt.dsn); got != tt.want {
			t.Errorf("withForeignKeys(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestAppendAndQueryPredictions(t *testing.T) {
	s := openTestStore(t)
	repo := s.PredictionRepo()
	ctx := context.Background()

	events, err := repo.QueryPredictions(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query (empty): %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}

	err = repo.AppendPrediction(ctx, PredictionEventData{
		SubmissionID:   "sub-1",
		Endpoint:       "http://localhost:8000/predict",
		RequestBody:    `{"Crop_Year":2020}`,
		ResponseBody:   `{"predicted_yield":3456.789}`,
		StatusCode:     200,
		PredictedYield: ptr(3456.789),
		LatencyMs:      12,
		Success:        true,
	})
	if err != nil {
		t.Fatalf("append success: %v", err)
	}
	err = repo.AppendPrediction(ctx, PredictionEventData{
		SubmissionID: "sub-2",
		Endpoint:     "http://localhost:8000/predict",
		RequestBody:  `{"Crop_Year":null}`,
		StatusCode:   500,
		LatencyMs:    3,
		Success:      false,
		ErrorMessage: "prediction service unavailable",
	})
	if err != nil {
		t.Fatalf("append failure: %v", err)
	}

	events, err = repo.QueryPredictions(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	newest, oldest := events[0], events[1]
	if newest.SubmissionID != "sub-2" || oldest.SubmissionID != "sub-1" {
		t.Errorf("order = [%s %s], want [sub-2 sub-1]", newest.SubmissionID, oldest.SubmissionID)
	}
	if newest.Sequence <= oldest.Sequence {
		t.Errorf("sequence not increasing: %d then %d", oldest.Sequence, newest.Sequence)
	}
	if newest.PredictedYield != nil {
		t.Errorf("failed event predicted_yield = %v, want nil", *newest.PredictedYield)
	}
	if newest.Success || newest.ErrorMessage == "" {
		t.Errorf("failed event = %+v", newest)
	}
	if oldest.PredictedYield == nil || *oldest.PredictedYield != 3456.789 {
		t.Errorf("predicted_yield = %v, want 3456.789", oldest.PredictedYield)
	}
	if oldest.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestQueryPredictionsLimitAndAfter(t *testing.T) {
	s := openTestStore(t)
	repo := s.PredictionRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := repo.AppendPrediction(ctx, PredictionEventData{
			SubmissionID: fmt.Sprintf("sub-%d", i),
			Success:      true,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QueryPredictions(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("limit: got %d events, want 2", len(events))
	}
	if events[0].SubmissionID != "sub-4" {
		t.Errorf("newest = %s, want sub-4", events[0].SubmissionID)
	}

	after, err := repo.QueryPredictions(ctx, QueryOpts{After: events[1].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 1 || after[0].SubmissionID != "sub-4" {
		t.Errorf("after = %+v, want only sub-4", after)
	}
}

func TestGetPrediction(t *testing.T) {
	s := openTestStore(t)
	repo := s.PredictionRepo()
	ctx := context.Background()

	if err := repo.AppendPrediction(ctx, PredictionEventData{SubmissionID: "only", Success: true}); err != nil {
		t.Fatalf("append: %v", err)
	}
	events, err := repo.QueryPredictions(ctx, QueryOpts{Limit: 1})
	if err != nil || len(events) != 1 {
		t.Fatalf("query: %v (%d events)", err, len(events))
	}

	got, err := repo.GetPrediction(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.SubmissionID != "only" {
		t.Fatalf("get = %+v, want submission only", got)
	}

	missing, err := repo.GetPrediction(ctx, events[0].ID+100)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}
}

func TestQueryPredictionsFailedOnly(t *testing.T) {
	s := openTestStore(t)
	repo := s.PredictionRepo()
	ctx := context.Background()

	if err := repo.AppendPrediction(ctx, PredictionEventData{SubmissionID: "bad", ErrorMessage: "HTTP 500"}); err != nil {
		t.Fatalf("append failure: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := repo.AppendPrediction(ctx, PredictionEventData{SubmissionID: fmt.Sprintf("ok-%d", i), Success: true}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QueryPredictions(ctx, QueryOpts{Limit: 2, FailedOnly: true})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 || events[0].SubmissionID != "bad" {
		t.Fatalf("failed only = %+v, want just bad", events)
	}
}
