package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"astrasub/internal/jobstore"
	"astrasub/internal/pipeline"
)

var mediaExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".avi": true, ".mov": true,
	".webm": true, ".m4v": true, ".ts": true,
	".mp3": true, ".wav": true, ".flac": true, ".m4a": true,
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var listPath string

	cmd := &cobra.Command{
		Use:   "batch [directory | media-file...]",
		Short: "Generate subtitles for many files sequentially",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := collectSources(args, listPath)
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				return fmt.Errorf("no media files to process")
			}

			out := cmd.OutOrStdout()
			p, cfg, err := ctx.buildPipeline(progressSink(out))
			if err != nil {
				return err
			}
			store, err := jobstore.Open(cfg.Jobs.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()

			report, err := p.RunBatch(cmd.Context(), store, pipeline.BatchRequest{
				Sources:        sources,
				InterItemDelay: time.Duration(cfg.Jobs.InterItemDelaySeconds) * time.Second,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderBatchReport(report))
			if report.Failed > 0 {
				return fmt.Errorf("%d of %d videos failed (job %s)", report.Failed, len(report.Outcomes), report.JobID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&listPath, "list", "l", "", "File containing one media path per line")
	return cmd
}

// collectSources merges positional arguments (files or directories) with an
// optional list file, preserving order and dropping duplicates.
func collectSources(args []string, listPath string) ([]string, error) {
	var sources []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		sources = append(sources, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read directory %q: %w", arg, err)
		}
		var found []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if mediaExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				found = append(found, filepath.Join(arg, entry.Name()))
			}
		}
		sort.Strings(found)
		for _, path := range found {
			add(path)
		}
	}

	if listPath != "" {
		file, err := os.Open(listPath)
		if err != nil {
			return nil, fmt.Errorf("open list file: %w", err)
		}
		defer file.Close()
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			add(line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read list file: %w", err)
		}
	}

	return sources, nil
}

func renderBatchReport(report *pipeline.BatchReport) string {
	rows := make([][]string, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		status := "ok"
		detail := fmt.Sprintf("%d cues", outcome.CueCount)
		if outcome.Err != nil {
			status = "failed"
			detail = outcome.Err.Error()
		}
		rows = append(rows, []string{outcome.Source, status, detail})
	}
	table := renderTable(
		[]string{"Source", "Status", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	)
	return fmt.Sprintf("%s\nJob %s: %d succeeded, %d failed",
		table, report.JobID, report.Succeeded, report.Failed)
}
