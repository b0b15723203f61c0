package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"astrasub/internal/pipeline"
)

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// progressSink prints phase transitions as single lines.
func progressSink(out io.Writer) pipeline.EventSink {
	return pipeline.EventFunc(func(event pipeline.Event) {
		label := strings.ReplaceAll(string(event.Phase), "_", " ")
		switch event.Phase {
		case pipeline.PhaseError:
			fmt.Fprintf(out, "  ! %s: %s\n", label, event.Payload["error"])
		case pipeline.PhaseStarted:
			fmt.Fprintf(out, "Processing %s\n", event.Payload["source"])
		case pipeline.PhaseCompleted:
			fmt.Fprintf(out, "  done (%s cues, %s files)\n", event.Payload["cues"], event.Payload["files"])
		default:
			fmt.Fprintf(out, "  - %s\n", label)
		}
	})
}

func formatPercent(value float32) string {
	return fmt.Sprintf("%.0f%%", value*100)
}

func pipelineRequest(source, baseName string) pipeline.Request {
	return pipeline.Request{Source: source, BaseName: baseName}
}
