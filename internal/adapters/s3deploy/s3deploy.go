// Package s3deploy uploads a built static site to an S3 bucket.
package s3deploy

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader is the subset of manager.Uploader used for deploys.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Target names the bucket and key prefix to deploy into.
type Target struct {
	Bucket string
	Prefix string
}

// NewUploader builds an S3 uploader from the default AWS credential chain.
// An empty region keeps the chain's region.
func NewUploader(ctx context.Context, region string) (*manager.Uploader, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}
	return manager.NewUploader(s3.NewFromConfig(cfg)), nil
}

// DeploySite uploads every file under outputDir, keyed by its slash-separated relative path.
// PRE: target.Bucket is non-empty; outputDir exists
// POST: Returns the number of uploaded objects; stops at the first failure
func DeploySite(ctx context.Context, up Uploader, target Target, outputDir string) (int, error) {
	if target.Bucket == "" {
		return 0, fmt.Errorf("bucket is required")
	}
	slog.Info("deploy_started", "bucket", target.Bucket, "dir", outputDir)

	uploaded := 0
	err := filepath.WalkDir(outputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(outputDir, p)
		if err != nil {
			return err
		}
		key := ObjectKey(target.Prefix, rel)

		file, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("failed to open file %s: %w", p, err)
		}
		defer file.Close()

		_, err = up.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(target.Bucket),
			Key:         aws.String(key),
			Body:        file,
			ContentType: aws.String(ContentType(p)),
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s to S3: %w", key, err)
		}
		uploaded++
		slog.Debug("deploy_uploaded", "key", key)
		return nil
	})
	if err != nil {
		return uploaded, err
	}
	slog.Info("deploy_complete", "bucket", target.Bucket, "objects", uploaded)
	return uploaded, nil
}

// ObjectKey joins the prefix and a filesystem-relative path into an S3 key.
func ObjectKey(prefix, rel string) string {
	return path.Join(prefix, filepath.ToSlash(rel))
}

// ContentType guesses the MIME type from the extension.
func ContentType(p string) string {
	if ct := mime.TypeByExtension(filepath.Ext(p)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
