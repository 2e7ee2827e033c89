package history

import (
	"context"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	started := time.Now().Add(-time.Minute)

	if err := store.BeginRun(ctx, "run-1", "/videos", "fast", 3, started); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	records := []FileRecord{
		{Path: "/videos/a.mp4", Outcome: OutcomeSuccess, Seconds: 12.5},
		{Path: "/videos/b.mp4", Outcome: OutcomeFailed, Seconds: 3.1, Detail: "exit status 1"},
		{Path: "/videos/c.mp4", Outcome: OutcomeSkipped},
	}
	for _, record := range records {
		if err := store.RecordFile(ctx, "run-1", record); err != nil {
			t.Fatalf("RecordFile failed: %v", err)
		}
	}
	if err := store.FinishRun(ctx, "run-1", "completed", 3, 1, 1, 1, time.Now()); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.Status != "completed" || run.Succeeded != 1 || run.Skipped != 1 || run.Failed != 1 {
		t.Errorf("unexpected run counters: %+v", run)
	}
	if run.FinishedAt.IsZero() {
		t.Error("finished_at not recorded")
	}

	files, err := store.FilesForRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("FilesForRun failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 file records, got %d", len(files))
	}
	if files[1].Detail != "exit status 1" {
		t.Errorf("detail not persisted: %+v", files[1])
	}
	if files[2].Outcome != OutcomeSkipped {
		t.Errorf("unexpected outcome order: %+v", files)
	}
}

func TestRecentRunsOrder(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		if err := store.BeginRun(ctx, id, "/videos", "fast", 1, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("BeginRun failed: %v", err)
		}
	}
	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(runs))
	}
	if runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Errorf("unexpected ordering: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	store := openStore(t)
	err := store.FinishRun(context.Background(), "ghost", "completed", 0, 0, 0, 0, time.Now())
	if err == nil {
		t.Fatal("expected error for unknown run")
	}
}
