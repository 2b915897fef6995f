package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"aerotrace/internal/bootstrap"
	"aerotrace/internal/bootstrap/logging"
	"aerotrace/internal/errs"
	"aerotrace/internal/usecase/analysis"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a fleet snapshot (components, events, evidence, documents) from JSON",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *analysis.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		path, _ := cmd.Flags().GetString("file")
		raw, err := os.ReadFile(path)
		if err != nil {
			return errs.Wrapf(err, "read snapshot file %q", path)
		}

		var snapshot analysis.FleetSnapshot
		if err := json.Unmarshal(raw, &snapshot); err != nil {
			return errs.Wrapf(err, "decode snapshot file %q", path)
		}

		imported, failed, err := svc.ImportSnapshot(ctx, snapshot)
		if err != nil {
			logging.Error(ctx, "import snapshot failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "import snapshot")
		}

		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintf(out, "imported %d component(s), %d failed\n", imported, len(failed)); err != nil {
			return errs.Wrap(err, "write import output")
		}
		for _, failure := range failed {
			if _, err := fmt.Fprintf(out, "failed %s: %v\n", failure.ComponentID, failure.Err); err != nil {
				return errs.Wrap(err, "write import failure")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("file", "", "Path to fleet snapshot JSON")
	_ = importCmd.MarkFlagRequired("file")
}
