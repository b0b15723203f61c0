package pipeline

// Phase identifies one step of the batch workflow.
type Phase string

const (
	PhaseStarted            Phase = "started"
	PhaseAudioExtraction    Phase = "audio_extraction"
	PhaseSpeechRecognition  Phase = "speech_recognition"
	PhaseTimingOptimization Phase = "timing_optimization"
	PhaseContentEnhancement Phase = "content_enhancement"
	PhaseTranslation        Phase = "translation"
	PhaseQualityScoring     Phase = "quality_scoring"
	PhaseExport             Phase = "export"
	PhaseCompleted          Phase = "completed"
	PhaseError              Phase = "error"
)

// Event is one phase transition, carrying a phase-specific payload.
type Event struct {
	Phase   Phase
	Payload map[string]string
}

// EventSink receives ordered phase events for one pipeline run.
type EventSink interface {
	HandleEvent(Event)
}

// EventFunc adapts a plain function to the EventSink interface.
type EventFunc func(Event)

// HandleEvent calls f(event).
func (f EventFunc) HandleEvent(event Event) {
	f(event)
}

type nopSink struct{}

func (nopSink) HandleEvent(Event) {}
