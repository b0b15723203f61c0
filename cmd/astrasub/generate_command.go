package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var baseName string

	cmd := &cobra.Command{
		Use:   "generate <media-file>",
		Short: "Generate subtitles for one media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			p, _, err := ctx.buildPipeline(progressSink(out))
			if err != nil {
				return err
			}

			result, err := p.Run(cmd.Context(), pipelineRequest(args[0], baseName))
			if err != nil {
				return err
			}

			report := result.Report
			fmt.Fprintf(out, "\nQuality report: %d cues, %d words, readability %s, quality %s\n",
				report.CueCount, report.TotalWords,
				formatPercent(report.MeanReadability), formatPercent(report.MeanQuality))
			for _, file := range result.Files {
				if file.Skipped {
					fmt.Fprintf(out, "  skipped %s/%s: %s\n", file.Language, file.Format, file.Reason)
					continue
				}
				fmt.Fprintf(out, "  wrote %s\n", file.Path)
			}
			for lang, reason := range result.TranslationFailures {
				fmt.Fprintf(out, "  translation to %s failed: %s\n", lang, reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseName, "base-name", "", "Output file stem (defaults to the source basename)")
	return cmd
}
