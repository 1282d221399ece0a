// Package sitegen writes the directory as a static site using the server's templates.
package sitegen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"sigsite/internal/adapters/render"
	"sigsite/internal/adapters/view"
	"sigsite/internal/application/projections"
	"sigsite/internal/domain/directory"
)

// Options controls a static build.
type Options struct {
	OutputDir string
	// PhotoDir is copied to assets/members/ when it exists.
	PhotoDir string
}

// Result counts what a build wrote.
type Result struct {
	Pages  int
	Assets int
}

// Build renders the directory page, one detail page per member and the static assets.
// PRE: opts.OutputDir is non-empty
// POST: OutputDir contains members.html, index.html, members/<category>/<index>/index.html and assets/
func Build(ctx context.Context, d directory.Directory, opts Options) (Result, error) {
	if opts.OutputDir == "" {
		return Result{}, fmt.Errorf("output directory is required")
	}
	surface := render.NewDirectorySurface()
	surface.RenderDirectory(d, nil)

	var res Result
	dirView, err := projections.QueryDirectoryView(ctx, projections.DirectoryViewQuery{}, projections.DirectoryViewDeps{Cards: surface})
	if err != nil {
		return res, err
	}
	for _, name := range []string{"members.html", "index.html"} {
		if err := writePage(filepath.Join(opts.OutputDir, name), view.PageMembers, view.Page{Title: "Members", Static: true, Data: dirView}); err != nil {
			return res, err
		}
		res.Pages++
	}

	for _, c := range directory.Categories {
		for i := range d.Records(c) {
			detail, err := projections.QueryMemberDetail(ctx, projections.MemberDetailQuery{Category: c, Index: i}, projections.MemberDetailDeps{Records: surface})
			if err != nil {
				return res, err
			}
			path := filepath.Join(opts.OutputDir, "members", string(c), strconv.Itoa(i), "index.html")
			if err := writePage(path, view.PageMemberDetail, view.Page{Title: detail.Record.Name, Static: true, Data: detail}); err != nil {
				return res, err
			}
			res.Pages++
		}
	}

	n, err := copyTree(view.Assets(), filepath.Join(opts.OutputDir, "assets"))
	if err != nil {
		return res, fmt.Errorf("copy assets: %w", err)
	}
	res.Assets += n
	if opts.PhotoDir != "" {
		if info, err := os.Stat(opts.PhotoDir); err == nil && info.IsDir() {
			n, err := copyTree(os.DirFS(opts.PhotoDir), filepath.Join(opts.OutputDir, "assets", "members"))
			if err != nil {
				return res, fmt.Errorf("copy photos: %w", err)
			}
			res.Assets += n
		}
	}

	slog.Info("static_site_built", "dir", opts.OutputDir, "pages", res.Pages, "assets", res.Assets)
	return res, nil
}

func writePage(path, name string, p view.Page) error {
	var buf bytes.Buffer
	if err := view.Render(&buf, name, p); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func copyTree(src fs.FS, dst string) (int, error) {
	count := 0
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		in, err := src.Open(p)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			out.Close()
			return err
		}
		count++
		return out.Close()
	})
	return count, err
}
