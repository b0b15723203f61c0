// Package logging centralizes slog logger construction and the structured
// field vocabulary shared by every pipeline component. Two output formats are
// supported: a human-oriented console format and line-delimited JSON.
package logging
