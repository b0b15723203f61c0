package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"astrasub/internal/audio"
	"astrasub/internal/cue"
	"astrasub/internal/recognizer"
	"astrasub/internal/streamgen"
	"astrasub/internal/timecode"
)

// newStreamCommand runs a streaming subtitle session against a media file,
// simulating live playback through a chunked source. Partial cues print as
// they are produced.
func newStreamCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream <media-file>",
		Short: "Emit partial subtitle cues from simulated live playback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			extractor := audio.NewExtractor(cfg.FFmpegBinary())
			audioCtx, err := extractor.Extract(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sink := streamgen.CueFunc(func(sc cue.StreamingCue) {
				marker := " "
				if sc.IsFinal {
					marker = "*"
				}
				fmt.Fprintf(out, "%s [%s --> %s] %s\n",
					marker,
					timecode.Encode(sc.StartMs, timecode.FormatVTT),
					timecode.Encode(sc.EndMs, timecode.FormatVTT),
					sc.Text,
				)
			})

			whisper := recognizer.NewWhisper(recognizer.Config{
				BaseURL: cfg.Recognizer.BaseURL,
				APIKey:  cfg.Recognizer.APIKey,
				Model:   cfg.Recognizer.Model,
				Timeout: time.Duration(cfg.Recognizer.TimeoutSeconds) * time.Second,
			})
			generator, err := streamgen.New(streamgen.Options{
				BufferSize:              cfg.Streaming.BufferSize,
				ChunkDurationMs:         cfg.Streaming.ChunkDurationMs,
				MinimumProcessingChunks: cfg.Streaming.MinimumProcessingChunks,
				OverlapChunks:           cfg.Streaming.OverlapChunks,
				ProcessingInterval:      time.Duration(cfg.Streaming.ProcessingIntervalMs) * time.Millisecond,
			}, audio.NewPlaybackSource(audioCtx), whisper, sink, cfg.Recognizer.Language, logger)
			if err != nil {
				return err
			}

			generator.Start(cmd.Context())
			defer generator.Stop()

			ticker := time.NewTicker(100 * time.Millisecond)
			defer ticker.Stop()
			for generator.Running() {
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-ticker.C:
				}
			}
			return nil
		},
	}
	return cmd
}
