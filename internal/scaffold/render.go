package scaffold

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ajitpratap0/pygitrepo/pkg/errors"
	"github.com/ajitpratap0/pygitrepo/pkg/logger"
)

// Ignored lists the template entries that are never rendered.
var Ignored = []string{
	"**/__pycache__",
	"**/__pycache__/**",
	"**/*.pyc",
	"**/.DS_Store",
}

func ignored(rel string) bool {
	for _, pattern := range Ignored {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// IsBinary reports content that is copied without expansion.
func IsBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data)
}

// Render copies the tree under srcRoot of src to dstRoot of dst. Entry names
// and text files are expanded with vars; binary files are copied unchanged.
// It returns the number of files written.
func Render(ctx context.Context, src afero.Fs, srcRoot string, dst afero.Fs, dstRoot string, vars map[string]string) (int, error) {
	log := logger.Get().With(zap.String("template", srcRoot), zap.String("output", dstRoot))
	count := 0

	err := afero.Walk(src, srcRoot, func(p string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return errors.Wrap(walkErr, errors.ErrorTypeFile, "failed to walk template").
				WithDetail("path", p)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(srcRoot, p)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to relativize template path")
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && ignored(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := dstRoot
		if rel != "." {
			expanded, err := Expand(rel, vars)
			if err != nil {
				return err
			}
			target = filepath.Join(dstRoot, filepath.FromSlash(path.Clean(expanded)))
		}

		if info.IsDir() {
			if err := dst.MkdirAll(target, 0o755); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "failed to create directory").
					WithDetail("path", target)
			}
			log.Debug("created directory", zap.String("path", target))
			return nil
		}

		data, err := afero.ReadFile(src, p)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to read template file").
				WithDetail("path", p)
		}
		if !IsBinary(data) {
			text, err := Expand(string(data), vars)
			if err != nil {
				var e *errors.Error
				if errors.As(err, &e) {
					e.WithDetail("path", p)
				}
				return err
			}
			data = []byte(text)
		}
		if err := afero.WriteFile(dst, target, data, info.Mode().Perm()|0o600); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write file").
				WithDetail("path", target)
		}
		log.Debug("created file", zap.String("path", target))
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, nil
}
