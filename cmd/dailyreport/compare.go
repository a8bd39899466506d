package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"docreview-backend/internal/appstate"
	"docreview-backend/internal/comparison"
	"docreview-backend/internal/progress"
	"docreview-backend/internal/shared/telemetry"
)

func newCompareCmd(opts *options) *cobra.Command {
	var project, file, startDate string
	var raw bool
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a daily report against the project's final file",
		Long: `Runs anomaly detection between a daily report and the final file of the
project, then fetches the progress chart from the start date on.

The project defaults to the selected one. The raw report is stored in the
state file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()

			if project == "" {
				project = s.state.SelectedProject()
			}
			var final string
			if project != "" {
				if final, _, err = s.registry.Get(ctx, project); err != nil {
					return err
				}
			}

			res := runComparison(ctx, s.client, s.state, comparison.Request{
				Project:       project,
				CandidateFile: file,
				FinalFile:     final,
				StartDate:     startDate,
			})
			if res.State == comparison.Failed {
				return errors.New(res.Message)
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, res.Raw)
				return nil
			}
			fmt.Fprintf(out, "%s vs %s (from %s)\n\n", res.Request.CandidateFile, res.Request.FinalFile, res.Request.StartDate)
			renderSummary(out, res.Anomalies)
			fmt.Fprintln(out)
			if res.ChartErr != nil {
				fmt.Fprintf(out, "Progress chart unavailable: %v\n", res.ChartErr)
				return nil
			}
			renderChart(out, res.Chart)
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project name (default: selected project)")
	cmd.Flags().StringVar(&file, "file", "", "Daily report to compare")
	cmd.Flags().StringVar(&startDate, "start-date", "", "Anomaly start date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the raw report text")
	return cmd
}

// reportRecorder persists the raw report of a finished comparison.
type reportRecorder interface {
	RecordReport(project string, r appstate.Report) error
}

// runComparison runs one comparison and records its report once, after the
// result is final. Failed and stale results are not recorded.
func runComparison(ctx context.Context, backend comparison.Backend, rec reportRecorder, req comparison.Request) comparison.Result {
	orch := comparison.New(backend)
	orch.Subscribe(func(r comparison.Result) {
		telemetry.Info("compare.state", map[string]any{
			"project":    r.Request.Project,
			"state":      r.State.String(),
			"generation": r.Generation,
		})
	})

	res := orch.Compare(ctx, req)
	if res.State != comparison.Ready || res.Stale {
		return res
	}
	err := rec.RecordReport(res.Request.Project, appstate.Report{
		CandidateFile: res.Request.CandidateFile,
		FinalFile:     res.Request.FinalFile,
		StartDate:     res.Request.StartDate,
		Raw:           res.Raw,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		telemetry.Error("compare.record_failed", map[string]any{"error": err})
	}
	return res
}

func newChartCmd(opts *options) *cobra.Command {
	var startDate string
	cmd := &cobra.Command{
		Use:   "chart <project>",
		Short: "Show the progress chart of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			points, err := s.client.ProgressChart(ctx, args[0], startDate)
			if err != nil {
				return err
			}
			renderChart(cmd.OutOrStdout(), points)
			return nil
		},
	}
	cmd.Flags().StringVar(&startDate, "start-date", "", "Only show points from this date on (YYYY-MM-DD)")
	return cmd
}

func newProgressCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <project> <date> <percent>",
		Short: "Record the progress of a project on a date",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := progress.ParseDate(args[1]); err != nil {
				return err
			}
			value, err := strconv.ParseFloat(strings.TrimSuffix(args[2], "%"), 64)
			if err != nil || !progress.ValidProgress(value) {
				return fmt.Errorf("invalid progress %q: want a number between 0 and 100", args[2])
			}
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			if err := s.client.RecordProgress(ctx, args[0], args[1], value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s: %.1f%%\n", args[1], value)
			return nil
		},
	}
}

func newChatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <project> <file> <question>",
		Short: "Ask a question about a project file",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			answer, err := s.client.Ask(ctx, args[0], args[1], strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			return printMarkdown(cmd.OutOrStdout(), answer, opts.plain)
		},
	}
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <project> <file>",
		Short: "Summarize a project file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			summary, err := s.client.Summarize(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return printMarkdown(cmd.OutOrStdout(), summary, opts.plain)
		},
	}
}

func newContractsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "contracts <project> <first> <second>",
		Short: "Compare two contract documents of a project",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context()
			defer cancel()
			report, err := s.client.CompareContracts(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return printMarkdown(cmd.OutOrStdout(), report, opts.plain)
		},
	}
}
