package jobstore

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func TestCreateAndFetchJob(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.CreateJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if created.Status != StatusPending {
		t.Fatalf("new job status = %q, want %q", created.Status, StatusPending)
	}

	fetched, err := store.Job(ctx, "job-1")
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if fetched.ID != "job-1" || fetched.Status != StatusPending {
		t.Fatalf("fetched job = %+v", fetched)
	}
	if fetched.CreatedAt.IsZero() {
		t.Fatal("expected created timestamp to be set")
	}
}

func TestStatusTransitions(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateJob(ctx, "job-2"); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	for _, status := range []Status{StatusRunning, StatusCompleted} {
		if err := store.SetStatus(ctx, "job-2", status); err != nil {
			t.Fatalf("SetStatus(%q): %v", status, err)
		}
		job, err := store.Job(ctx, "job-2")
		if err != nil {
			t.Fatalf("Job: %v", err)
		}
		if job.Status != status {
			t.Fatalf("status = %q, want %q", job.Status, status)
		}
	}
}

func TestOutcomesUpdateCounters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateJob(ctx, "job-3"); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	outcomes := []Outcome{
		{JobID: "job-3", Source: "a.mkv", Success: true, CueCount: 42},
		{JobID: "job-3", Source: "b.mkv", Success: false, Error: "no audio track"},
		{JobID: "job-3", Source: "c.mkv", Success: true, CueCount: 7},
	}
	for _, outcome := range outcomes {
		if err := store.AddOutcome(ctx, outcome); err != nil {
			t.Fatalf("AddOutcome(%q): %v", outcome.Source, err)
		}
	}

	job, err := store.Job(ctx, "job-3")
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if job.Succeeded != 2 || job.Failed != 1 {
		t.Fatalf("counters = %d/%d, want 2/1", job.Succeeded, job.Failed)
	}

	stored, err := store.Outcomes(ctx, "job-3")
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("outcome count = %d, want 3", len(stored))
	}
	if stored[0].Source != "a.mkv" || stored[0].CueCount != 42 || !stored[0].Success {
		t.Fatalf("first outcome = %+v", stored[0])
	}
	if stored[1].Error != "no audio track" || stored[1].Success {
		t.Fatalf("second outcome = %+v", stored[1])
	}
}

func TestCompleteJob(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		outcomes []Outcome
		want     Status
	}{
		{"all succeeded", []Outcome{{Success: true}}, StatusCompleted},
		{"partial failure", []Outcome{{Success: true}, {Success: false}}, StatusCompleted},
		{"all failed", []Outcome{{Success: false}}, StatusFailed},
	}
	for i, tc := range cases {
		id := tc.name
		if _, err := store.CreateJob(ctx, id); err != nil {
			t.Fatalf("CreateJob: %v", err)
		}
		for j, outcome := range tc.outcomes {
			outcome.JobID = id
			outcome.Source = "video.mkv"
			if err := store.AddOutcome(ctx, outcome); err != nil {
				t.Fatalf("case %d outcome %d: %v", i, j, err)
			}
		}
		if err := store.CompleteJob(ctx, id); err != nil {
			t.Fatalf("CompleteJob(%q): %v", id, err)
		}
		job, err := store.Job(ctx, id)
		if err != nil {
			t.Fatalf("Job: %v", err)
		}
		if job.Status != tc.want {
			t.Errorf("%s: status = %q, want %q", tc.name, job.Status, tc.want)
		}
	}
}

func TestJobsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"old", "mid", "new"} {
		if _, err := store.CreateJob(ctx, id); err != nil {
			t.Fatalf("CreateJob(%q): %v", id, err)
		}
	}

	jobs, err := store.Jobs(ctx, 2)
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("job count = %d, want 2", len(jobs))
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
