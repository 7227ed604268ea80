package repoconfig

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ajitpratap0/pygitrepo/pkg/errors"
)

// ConfigFile is the per repository settings file at the project root.
const ConfigFile = ".pygitrepo-config.json"

// IsRootDir reports whether dir holds both a .git entry and ConfigFile.
func IsRootDir(fs afero.Fs, dir string) (bool, error) {
	for _, name := range []string{".git", ConfigFile} {
		ok, err := afero.Exists(fs, filepath.Join(dir, name))
		if err != nil {
			return false, errors.Wrap(err, errors.ErrorTypeFile, "failed to inspect directory").
				WithDetail("path", dir)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Locate walks from start up to the filesystem root and returns the first
// directory accepted by IsRootDir.
func Locate(fs afero.Fs, start string) (string, error) {
	dir := filepath.Clean(start)
	for {
		ok, err := IsRootDir(fs, dir)
		if err != nil {
			return "", err
		}
		if ok {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.Newf(errors.ErrorTypeConfig,
		"cannot locate a valid pygitrepo directory that has a `.git` dir and `%s` file", ConfigFile).
		WithDetail("start", start)
}
