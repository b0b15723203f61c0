package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"astrasub/internal/subexport"
	"astrasub/internal/timecode"
)

// newExportCommand re-serializes an existing SRT file into another subtitle
// container format without re-running recognition.
func newExportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var outputPath string
	var languageFlag string

	cmd := &cobra.Command{
		Use:         "export <subtitle.srt>",
		Short:       "Convert an SRT file to another subtitle format",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, ok := timecode.ParseFormat(formatFlag)
			if !ok {
				return fmt.Errorf("unknown format %q (supported: srt, vtt, ass, ttml)", formatFlag)
			}

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read subtitle file: %w", err)
			}
			set, err := subexport.ParseSRT(string(content), languageFlag)
			if err != nil {
				return err
			}
			rendered, err := subexport.Export(set, format)
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				target = filepath.Join(filepath.Dir(args[0]), base+"."+string(format))
			}
			if err := os.WriteFile(target, []byte(rendered), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d cues to %s\n", len(set), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "vtt", "Target format (srt, vtt, ass, ttml)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (defaults beside the input)")
	cmd.Flags().StringVar(&languageFlag, "language", "", "Language code stamped on the cues")
	return cmd
}
