package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"astrasub/internal/jobstore"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var showOutcomes string

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List persisted batch jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := jobstore.Open(cfg.Jobs.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if showOutcomes != "" {
				outcomes, err := store.Outcomes(cmd.Context(), showOutcomes)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(outcomes))
				for _, outcome := range outcomes {
					status := "ok"
					detail := strconv.Itoa(outcome.CueCount) + " cues"
					if !outcome.Success {
						status = "failed"
						detail = outcome.Error
					}
					rows = append(rows, []string{outcome.Source, status, detail})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Source", "Status", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
				return nil
			}

			jobs, err := store.Jobs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, []string{
					job.ID,
					string(job.Status),
					strconv.Itoa(job.Succeeded),
					strconv.Itoa(job.Failed),
					job.CreatedAt.Local().Format(time.RFC3339),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Job", "Status", "Succeeded", "Failed", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum jobs to list")
	cmd.Flags().StringVar(&showOutcomes, "outcomes", "", "Show per-video outcomes for the given job ID")
	return cmd
}
