// Package translate defines the batch translation interface consumed by the
// pipeline and an adapter backed by an OpenAI-compatible chat endpoint.
// Translations are index-aligned with the input; a missing translation for an
// index falls back to the original text.
package translate
