// Package recognizer defines the speech-recognition interfaces the pipeline
// consumes and an adapter for whisper-compatible transcription services
// speaking the OpenAI audio API.
package recognizer
