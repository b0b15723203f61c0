// Package pipeline sequences the batch subtitle generation workflow.
//
// A Pipeline runs the ordered phases audio extraction, speech recognition,
// timing optimization, content enhancement, optional translation, quality
// scoring, and export. Phases run strictly sequentially; the first failure
// aborts the run and no partial cue set is surfaced as success. Translation
// iterates target languages with per-language isolation so one bad language
// never loses the others, and the result always keeps the untranslated set
// under the reserved "original" key.
//
// Progress is pushed to a caller-supplied EventSink as ordered phase-tagged
// events. Batch-of-videos mode processes sources sequentially, survives
// individual failures, and persists per-video outcomes through a job store.
package pipeline
