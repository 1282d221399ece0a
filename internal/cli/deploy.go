package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sigsite/internal/adapters/s3deploy"
)

type deployOptions struct {
	bucket string
	prefix string
	region string
	dir    string
}

// NewDeployCommand creates the deploy command.
func NewDeployCommand(rootOpts *RootOptions) *cobra.Command {
	var opts deployOptions
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the built static site to S3",
		Long: `Upload every file of the build output to an S3 bucket.

Credentials come from the default AWS chain (environment, shared config, instance role).
Run "sigctl build" first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts, cmd)
			if err != nil {
				return err
			}
			target := s3deploy.Target{Bucket: cfg.Deploy.Bucket, Prefix: cfg.Deploy.Prefix}
			if opts.bucket != "" {
				target.Bucket = opts.bucket
			}
			if opts.prefix != "" {
				target.Prefix = opts.prefix
			}
			if target.Bucket == "" {
				return errors.New("no bucket: pass --bucket or set SIGSITE_S3_BUCKET")
			}
			region := cfg.Deploy.Region
			if opts.region != "" {
				region = opts.region
			}
			dir := cfg.Directory.OutputDir
			if opts.dir != "" {
				dir = opts.dir
			}

			up, err := rootOpts.NewUploader(cmd.Context(), region)
			if err != nil {
				return err
			}
			n, err := s3deploy.DeploySite(cmd.Context(), up, target, dir)
			if err != nil {
				return err
			}
			return output(rootOpts, cmd.OutOrStdout(), map[string]any{"bucket": target.Bucket, "objects": n}, func(w io.Writer) {
				fmt.Fprintf(w, "uploaded %d objects to s3://%s/%s\n", n, target.Bucket, target.Prefix)
			})
		},
	}
	cmd.Flags().StringVar(&opts.bucket, "bucket", "", "S3 bucket (default deploy.bucket)")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "key prefix inside the bucket")
	cmd.Flags().StringVar(&opts.region, "region", "", "AWS region")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "site directory (default directory.output_dir)")
	return cmd
}
