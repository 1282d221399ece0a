package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sigsite/internal/application/orchestrators"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the cached directory as a static member document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			w := cmd.OutOrStdout()
			if outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			res, err := orchestrators.ExecuteExportDirectory(cmd.Context(),
				orchestrators.ExportDirectoryInput{W: w},
				orchestrators.ExportDirectoryDeps{Directory: a.CacheStore},
			)
			if err != nil {
				return err
			}
			if outPath != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d leadership, %d general, %d alumni to %s\n",
					res.Leadership, res.General, res.Alumni, outPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", orchestrators.ExportFilename, `output file ("-" for stdout)`)
	return cmd
}
