package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"sigsite/internal/application/orchestrators"
	"sigsite/internal/domain/syncrun"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one directory sync cycle now",
		Long: `Fetch members from the configured source, render them and update the cache.

Uses the same database as the server, so the server picks the result up on its
next restart and the run appears in the admin run log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			// Failed categories keep their cached records, as on the server.
			if _, err := a.Restore(cmd.Context()); err != nil {
				return err
			}
			res, err := orchestrators.ExecuteSyncDirectory(cmd.Context(), orchestrators.SyncDirectoryInput{Trigger: syncrun.TriggerCLI}, a.SyncDeps())
			if outErr := output(rootOpts, cmd.OutOrStdout(), res.Run, func(w io.Writer) { printRun(w, res.Run) }); outErr != nil {
				return outErr
			}
			return err
		},
	}
}

func printRun(w io.Writer, run syncrun.Run) {
	fmt.Fprintf(w, "%s sync from %s: %d leadership, %d general, %d alumni\n",
		run.Status, run.Source, run.LeadershipCount, run.GeneralCount, run.AlumniCount)
	if len(run.Warnings) > 0 {
		fmt.Fprintf(w, "warnings: %s\n", strings.Join(run.Warnings, "; "))
	}
	if run.Error != "" {
		fmt.Fprintf(w, "error: %s\n", run.Error)
	}
}
