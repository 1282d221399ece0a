// Package cli implements the sigctl operator commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"sigsite/internal/adapters/s3deploy"
	"sigsite/internal/app"
	"sigsite/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string // "json" | "text"

	// NewUploader builds the S3 uploader for deploy; tests replace it.
	NewUploader func(ctx context.Context, region string) (s3deploy.Uploader, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for sigctl.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{
		NewUploader: func(ctx context.Context, region string) (s3deploy.Uploader, error) {
			return s3deploy.NewUploader(ctx, region)
		},
	})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sigctl",
		Short: "Operate the member directory",
		Long:  "sigctl syncs, exports, builds and deploys the member directory outside the web server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "sigsite.yaml", "config file (missing file means defaults)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewDeployCommand(opts))
	cmd.AddCommand(NewHashPasswordCommand(opts))

	return cmd
}

// loadConfig reads the config and installs the logger on stderr.
func loadConfig(opts *RootOptions, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		cfg.Logging.Level = "debug"
	}
	slog.SetDefault(cfg.NewLogger(cmd.ErrOrStderr()))
	return cfg, nil
}

func openApp(opts *RootOptions, cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return nil, err
	}
	return app.New(cmd.Context(), cfg)
}

// output writes v as JSON or the text lines produced by text.
func output(opts *RootOptions, w io.Writer, v any, text func(w io.Writer)) error {
	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
