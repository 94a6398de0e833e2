package storage

import (
	"context"
	"path/filepath"
	"testing"

	"legisdir/internal"
)

func sp(v string) *string { return &v }

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRecordRunAndReadBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	changes := []internal.ContactChange{
		{Path: "0.officials.0.contact", Field: "contact", Owner: sp("X"), KindFrom: "structured", Action: internal.ActionFlattened, Cleaned: sp("02-123"), Email: sp("x@gov")},
		{Path: "0.officials.1.contact", Field: "contact", KindFrom: "null", Action: internal.ActionRemoved},
	}
	run := internal.RunRow{
		TraceID:    "trace-1",
		InputPath:  "in.json",
		OutputPath: "out.json",
		InputHash:  "abc",
		Counts:     internal.RunCounts{Records: 1, Visited: 2, Flattened: 1, Removed: 1, EmailsHoisted: 1},
		Timings:    map[string]float64{"totalMs": 3},
	}

	runID, err := db.RecordRun(ctx, run, changes)
	if err != nil {
		t.Fatal(err)
	}

	last, err := db.GetMetadata(MetaLastRun)
	if err != nil || last == nil || *last != "trace-1" {
		t.Fatalf("last run metadata got %v %v", last, err)
	}

	got, err := db.MustRun("")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != runID || got.TraceID != "trace-1" || got.Counts != run.Counts || got.Timings["totalMs"] != 3 {
		t.Fatalf("unexpected run: %+v", got)
	}

	stored, err := db.GetChanges(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 {
		t.Fatalf("got %d changes", len(stored))
	}
	if stored[0].Action != internal.ActionFlattened || *stored[0].Owner != "X" || *stored[0].Email != "x@gov" {
		t.Fatalf("unexpected first change: %+v", stored[0])
	}
	if stored[1].Owner != nil || stored[1].Cleaned != nil || stored[1].Action != internal.ActionRemoved {
		t.Fatalf("unexpected second change: %+v", stored[1])
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	for _, id := range []string{"a", "b", "c"} {
		if _, err := db.RecordRun(context.Background(), internal.RunRow{TraceID: id}, nil); err != nil {
			t.Fatal(err)
		}
	}

	if last, err := db.GetMetadata(MetaLastRun); err != nil || last == nil || *last != "c" {
		t.Fatalf("last run metadata got %v %v", last, err)
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].TraceID != "c" || runs[1].TraceID != "b" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestMustRunErrors(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.MustRun(""); err == nil {
		t.Fatal("expected error with no runs")
	}
	if _, err := db.MustRun("missing"); err == nil {
		t.Fatal("expected error for unknown trace id")
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	db := openTestDB(t)
	if v, err := db.GetMetadata("k"); err != nil || v != nil {
		t.Fatalf("got %v %v", v, err)
	}
	if err := db.SetMetadata("k", "1"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMetadata("k", "2"); err != nil {
		t.Fatal(err)
	}
	v, err := db.GetMetadata("k")
	if err != nil || v == nil || *v != "2" {
		t.Fatalf("got %v %v", v, err)
	}
}
