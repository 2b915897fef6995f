package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"aerotrace/internal/bootstrap"
	"aerotrace/internal/bootstrap/logging"
	"aerotrace/internal/domain/trace"
	"aerotrace/internal/errs"
	"aerotrace/internal/usecase/analysis"
)

var exceptionsCmd = &cobra.Command{
	Use:   "exceptions",
	Short: "Review and disposition the exception ledger",
}

var exceptionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exceptions, for one component or the whole fleet",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *analysis.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		componentID, _ := cmd.Flags().GetString("component")
		status, _ := cmd.Flags().GetString("status")

		exceptions, err := svc.ListExceptions(ctx, componentID)
		if err != nil {
			logging.Error(ctx, "list exceptions failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list exceptions")
		}

		out := cmd.OutOrStdout()
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		shown := 0
		fmt.Fprintln(w, "ID\tCOMPONENT\tTYPE\tSEVERITY\tSTATUS\tDETECTED\tTITLE")
		for _, ex := range exceptions {
			if status != "" && ex.Status != status {
				continue
			}
			shown++
			fmt.Fprintf(
				w,
				"%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				ex.ExceptionID, ex.ComponentID, ex.Type, ex.Severity, ex.Status, ex.DetectedAt, ex.Title,
			)
		}
		if shown == 0 {
			if _, err := fmt.Fprintln(out, "no exceptions"); err != nil {
				return errs.Wrap(err, "write exceptions output")
			}
			return nil
		}
		if err := w.Flush(); err != nil {
			return errs.Wrap(err, "write exceptions table")
		}
		return nil
	}),
}

var exceptionsResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Mark an exception resolved",
	RunE:  setExceptionStatus(trace.ExceptionResolved),
}

var exceptionsDismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Dismiss an exception as not actionable",
	RunE:  setExceptionStatus(trace.ExceptionDismissed),
}

func setExceptionStatus(status trace.ExceptionStatus) func(cmd *cobra.Command, args []string) error {
	return withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *analysis.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		exceptionID, _ := cmd.Flags().GetString("id")
		if err := svc.SetExceptionStatus(ctx, exceptionID, status); err != nil {
			logging.Error(ctx, "set exception status failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "set exception status")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "exception %s: %s\n", exceptionID, status); err != nil {
			return errs.Wrap(err, "write status output")
		}
		return nil
	})
}

func init() {
	rootCmd.AddCommand(exceptionsCmd)
	exceptionsCmd.AddCommand(exceptionsListCmd)
	exceptionsCmd.AddCommand(exceptionsResolveCmd)
	exceptionsCmd.AddCommand(exceptionsDismissCmd)

	exceptionsListCmd.Flags().String("component", "", "Filter by component ID")
	exceptionsListCmd.Flags().String("status", "", "Filter by status (open|investigating|resolved|dismissed)")

	exceptionsResolveCmd.Flags().String("id", "", "Exception ID")
	_ = exceptionsResolveCmd.MarkFlagRequired("id")

	exceptionsDismissCmd.Flags().String("id", "", "Exception ID")
	_ = exceptionsDismissCmd.MarkFlagRequired("id")
}
