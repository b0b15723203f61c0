package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoAudioTrack  = errors.New("no audio track")
	ErrRecognition   = errors.New("recognition failed")
	ErrMalformedCue  = errors.New("malformed cue")
	ErrTranslation   = errors.New("translation failed")
	ErrExport        = errors.New("export failed")
	ErrExternalTool  = errors.New("external tool error")
	ErrConfiguration = errors.New("configuration error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error must abort the current pipeline run.
// Translation and export failures degrade gracefully per item; everything
// else stops the run.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrTranslation) && !errors.Is(err, ErrExport)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
