package testsupport

import (
	"context"
	"testing"

	"astrasub/internal/config"
	"astrasub/internal/jobstore"
)

// MustOpenStore opens a jobstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *jobstore.Store {
	t.Helper()

	store, err := jobstore.Open(cfg.Jobs.DatabasePath)
	if err != nil {
		t.Fatalf("jobstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewJob creates a pending job for tests using the provided store.
func NewJob(t testing.TB, store *jobstore.Store, id string) *jobstore.Job {
	t.Helper()

	job, err := store.CreateJob(context.Background(), id)
	if err != nil {
		t.Fatalf("store.CreateJob: %v", err)
	}
	return job
}
