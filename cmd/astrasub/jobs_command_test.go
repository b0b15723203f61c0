package main

import (
	"context"
	"testing"

	"astrasub/internal/jobstore"
	"astrasub/internal/testsupport"
)

func TestJobsCommandListsJobsAndOutcomes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := writeTestConfig(t, cfg)

	store := testsupport.MustOpenStore(t, cfg)
	testsupport.NewJob(t, store, "job-1")
	ctx := context.Background()
	outcomes := []jobstore.Outcome{
		{JobID: "job-1", Source: "movie.mkv", Success: true, CueCount: 42},
		{JobID: "job-1", Source: "broken.mkv", Success: false, Error: "no audio track"},
	}
	for _, outcome := range outcomes {
		if err := store.AddOutcome(ctx, outcome); err != nil {
			t.Fatalf("AddOutcome: %v", err)
		}
	}
	if err := store.CompleteJob(ctx, "job-1"); err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}
	// Release the writer lock so the CLI can open the same database.
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out, _, err := runCLI(t, []string{"jobs"}, path)
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	requireContains(t, out, "job-1")
	requireContains(t, out, "completed")

	out, _, err = runCLI(t, []string{"jobs", "--outcomes", "job-1"}, path)
	if err != nil {
		t.Fatalf("jobs --outcomes: %v", err)
	}
	requireContains(t, out, "movie.mkv")
	requireContains(t, out, "42 cues")
	requireContains(t, out, "no audio track")
}
