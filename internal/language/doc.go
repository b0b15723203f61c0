// Package language provides unified language code normalization and mapping.
//
// All language-related conversions (ISO 639-1, ISO 639-2, display names,
// target-list normalization) are consolidated here to avoid duplication
// across the translation, export, and recognizer packages.
package language
