// Package scaffold generates a new python repository from a template tree.
package scaffold

import (
	"context"
	"embed"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ajitpratap0/pygitrepo/pkg/errors"
	"github.com/ajitpratap0/pygitrepo/pkg/logger"
)

//go:embed all:template
var templateFS embed.FS

// TemplateRoot is the root of the built in template inside Template.
const TemplateRoot = "template"

// Template returns the built in repository template.
func Template() afero.Fs {
	return afero.NewReadOnlyFs(afero.FromIOFS{FS: templateFS})
}

// Result describes a generated repository.
type Result struct {
	Dir   string
	Files int
}

// Init normalizes opts and renders the built in template into
// <parent>/<repo name> on dst. The target directory must not exist.
func Init(ctx context.Context, opts Options, version string, dst afero.Fs, parent string) (Result, error) {
	if err := opts.Normalize(); err != nil {
		return Result{}, err
	}
	dir := filepath.Join(parent, opts.RepoName)
	exists, err := afero.Exists(dst, dir)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.ErrorTypeFile, "failed to stat output directory").
			WithDetail("path", dir)
	}
	if exists {
		return Result{}, errors.Newf(errors.ErrorTypeFile, "%s already exists!", dir).
			WithDetail("path", dir)
	}

	n, err := Render(ctx, Template(), TemplateRoot, dst, dir, opts.Vars(version, time.Now().UTC()))
	if err != nil {
		return Result{Dir: dir, Files: n}, err
	}
	logger.Info("repository created",
		zap.String("package", opts.PackageName),
		zap.String("path", dir),
		zap.Int("files", n))
	return Result{Dir: dir, Files: n}, nil
}
