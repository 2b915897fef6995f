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

var stopsCmd = &cobra.Command{
	Use:   "stops",
	Short: "Show a component's custody chain as facility stops with trust levels",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *analysis.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		componentID, _ := cmd.Flags().GetString("component")
		stops, err := svc.FacilityStops(ctx, componentID)
		if err != nil {
			logging.Error(ctx, "build facility stops failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "build facility stops")
		}

		out := cmd.OutOrStdout()
		if len(stops) == 0 {
			if _, err := fmt.Fprintln(out, "no recorded events"); err != nil {
				return errs.Wrap(err, "write stops output")
			}
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FACILITY\tLOCATION\tACTIVITY\tFROM\tTO\tEVENTS\tDOCS\tTRUST")
		for _, stop := range stops {
			fmt.Fprintf(
				w,
				"%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
				stop.DisplayName,
				orDash(stop.Location),
				stop.Activity,
				stop.StartDate.Format(time.DateOnly),
				stop.EndDate.Format(time.DateOnly),
				len(stop.Events),
				stop.DocumentCount,
				stop.Trust,
			)
		}
		if err := w.Flush(); err != nil {
			return errs.Wrap(err, "write stops table")
		}

		for _, stop := range stops {
			if stop.PrecedingGap == nil {
				continue
			}
			if _, err := fmt.Fprintf(
				out,
				"gap before %s: %d undocumented days (%s)\n",
				stop.DisplayName,
				stop.PrecedingGap.Days,
				stop.PrecedingGap.Severity,
			); err != nil {
				return errs.Wrap(err, "write gap note")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(stopsCmd)

	stopsCmd.Flags().String("component", "", "Component ID")
	_ = stopsCmd.MarkFlagRequired("component")
}
