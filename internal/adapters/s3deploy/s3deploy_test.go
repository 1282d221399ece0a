package s3deploy

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
	failOn  string
}

func (f *fakeUploader) Upload(ctx context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	key := aws.ToString(in.Key)
	if key == f.failOn {
		return nil, errors.New("access denied")
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = string(body)
	f.types[key] = aws.ToString(in.ContentType)
	return &manager.UploadOutput{}, nil
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string]string{}, types: map[string]string{}}
}

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"members.html":                    "<html>",
		"assets/site.css":                 "body{}",
		"members/leadership/0/index.html": "<html>ada",
	}
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return dir
}

func TestDeploySite(t *testing.T) {
	up := newFakeUploader()
	n, err := DeploySite(context.Background(), up, Target{Bucket: "club-site", Prefix: "directory"}, writeSite(t))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var keys []string
	for k := range up.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{
		"directory/assets/site.css",
		"directory/members.html",
		"directory/members/leadership/0/index.html",
	}, keys)
	assert.Equal(t, "<html>ada", up.objects["directory/members/leadership/0/index.html"])
	assert.True(t, strings.HasPrefix(up.types["directory/members.html"], "text/html"))
}

func TestDeploySite_StopsOnFailure(t *testing.T) {
	up := newFakeUploader()
	up.failOn = "assets/site.css"
	_, err := DeploySite(context.Background(), up, Target{Bucket: "b"}, writeSite(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestDeploySite_RequiresBucket(t *testing.T) {
	_, err := DeploySite(context.Background(), newFakeUploader(), Target{}, t.TempDir())
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/octet-stream", ContentType("blob.unknownext"))
	assert.True(t, strings.HasPrefix(ContentType("a.css"), "text/css"))
}
