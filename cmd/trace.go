package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"aerotrace/internal/bootstrap"
	"aerotrace/internal/bootstrap/logging"
	"aerotrace/internal/errs"
	"aerotrace/internal/usecase/analysis"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Score a component's documentation completeness and list trace gaps",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *analysis.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		componentID, _ := cmd.Flags().GetString("component")
		report, err := svc.ComputeTrace(ctx, componentID)
		if err != nil {
			logging.Error(ctx, "compute trace failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "compute trace")
		}

		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintf(out, "Component: %s\n", componentID); err != nil {
			return errs.Wrap(err, "write trace output")
		}
		if _, err := fmt.Fprintf(out, "Score: %d/100 (%s)\n", report.Score, report.Rating); err != nil {
			return errs.Wrap(err, "write trace output")
		}
		if _, err := fmt.Fprintf(
			out,
			"Lifespan: %d days, events: %d, documents: %d\n",
			report.TotalDays, report.TotalEvents, report.TotalDocuments,
		); err != nil {
			return errs.Wrap(err, "write trace output")
		}

		if report.GapCount == 0 {
			if _, err := fmt.Fprintln(out, "Gaps: none"); err != nil {
				return errs.Wrap(err, "write trace output")
			}
			return nil
		}

		if _, err := fmt.Fprintf(out, "Gaps: %d (%d undocumented days)\n", report.GapCount, report.TotalGapDays); err != nil {
			return errs.Wrap(err, "write trace output")
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FROM\tDAYS\tSEVERITY\tLAST FACILITY\tNEXT FACILITY")
		for _, gap := range report.Gaps {
			fmt.Fprintf(
				w,
				"%s\t%d\t%s\t%s\t%s\n",
				gap.StartDate.Format(time.DateOnly),
				gap.Days,
				gap.Severity,
				orDash(gap.LastFacility),
				orDash(gap.NextFacility),
			)
		}
		if err := w.Flush(); err != nil {
			return errs.Wrap(err, "write gap table")
		}
		return nil
	}),
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().String("component", "", "Component ID")
	_ = traceCmd.MarkFlagRequired("component")
}
