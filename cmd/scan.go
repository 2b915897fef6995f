package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"aerotrace/internal/bootstrap"
	"aerotrace/internal/bootstrap/logging"
	"aerotrace/internal/errs"
	"aerotrace/internal/usecase/analysis"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run exception rules against one component or the whole fleet",
}

var scanComponentCmd = &cobra.Command{
	Use:   "component",
	Short: "Scan one component and upsert detected exceptions",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *analysis.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		componentID, _ := cmd.Flags().GetString("component")
		exceptions, err := svc.ScanComponent(ctx, componentID)
		if err != nil {
			logging.Error(ctx, "scan component failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "scan component")
		}

		out := cmd.OutOrStdout()
		if len(exceptions) == 0 {
			if _, err := fmt.Fprintf(out, "component %s: no exceptions\n", componentID); err != nil {
				return errs.Wrap(err, "write scan output")
			}
			return nil
		}

		if _, err := fmt.Fprintf(out, "component %s: %d exception(s)\n", componentID, len(exceptions)); err != nil {
			return errs.Wrap(err, "write scan output")
		}
		for _, ex := range exceptions {
			if _, err := fmt.Fprintf(
				out,
				"- %s [%s/%s] %s\n",
				ex.ExceptionID, ex.Type, ex.Severity, ex.Title,
			); err != nil {
				return errs.Wrap(err, "write scan item")
			}
		}
		return nil
	}),
}

var scanFleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Scan every component concurrently and summarize open exceptions",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *analysis.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		summary, err := svc.ScanFleet(ctx)
		if err != nil {
			logging.Error(ctx, "scan fleet failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "scan fleet")
		}

		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintf(
			out,
			"scanned %d component(s): %d with exceptions, %d open exception(s), %d failed\n",
			summary.TotalComponents,
			summary.ComponentsWithExceptions,
			summary.TotalExceptions,
			len(summary.Errors),
		); err != nil {
			return errs.Wrap(err, "write fleet summary")
		}

		for _, failure := range summary.Errors {
			if _, err := fmt.Fprintf(out, "failed %s: %v\n", failure.ComponentID, failure.Err); err != nil {
				return errs.Wrap(err, "write fleet failure")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.AddCommand(scanComponentCmd)
	scanCmd.AddCommand(scanFleetCmd)

	scanComponentCmd.Flags().String("component", "", "Component ID")
	_ = scanComponentCmd.MarkFlagRequired("component")
}
