package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sigsite/internal/adapters/sitegen"
)

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the cached directory as a static site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			if outDir == "" {
				outDir = a.Config.Directory.OutputDir
			}

			d, err := a.CacheStore.Load(cmd.Context())
			if err != nil {
				return err
			}
			res, err := sitegen.Build(cmd.Context(), d, sitegen.Options{OutputDir: outDir, PhotoDir: a.Config.PhotoDir})
			if err != nil {
				return err
			}
			return output(rootOpts, cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "built %d pages and %d assets in %s\n", res.Pages, res.Assets, outDir)
			})
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "output directory (default directory.output_dir)")
	return cmd
}
