// Package transcache provides a read-through cache for recognition results
// keyed by media, language, and model. Entries expire after a configured TTL.
// The cache is passed by reference to the pipeline, never accessed as
// ambient singleton state.
package transcache
