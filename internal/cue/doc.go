// Package cue defines the canonical in-memory subtitle cue representation
// shared by every pipeline stage, plus the validity predicates downstream
// stages use as precondition checks.
package cue
