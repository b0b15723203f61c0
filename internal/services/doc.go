// Package services defines the shared error taxonomy used across pipeline
// stages. Errors are tagged with sentinel markers so callers can classify
// failures with errors.Is without parsing messages.
package services
