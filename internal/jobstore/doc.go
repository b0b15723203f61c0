// Package jobstore persists batch subtitle jobs and their per-video outcomes
// in a SQLite database so batch reports survive process restarts. A file lock
// next to the database enforces a single writer.
package jobstore
