package scaffold

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/pygitrepo/pkg/configirl"
	"github.com/ajitpratap0/pygitrepo/pkg/repoconfig"
)

func writeTree(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(name), 0o755))
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
}

func TestRender(t *testing.T) {
	src := afero.NewMemMapFs()
	writeTree(t, src, map[string]string{
		"/tpl/{{ package_name }}/__init__.py":               "name = \"{{ package_name }}\"\n",
		"/tpl/{{ package_name }}/__pycache__/x.cpython.pyc": "junk",
		"/tpl/{{ package_name }}/cached.pyc":                "junk",
		"/tpl/docs/.DS_Store":                               "junk",
		"/tpl/docs/logo.png":                                "\x89PNG\x00{{ package_name }}",
		"/tpl/README.rst":                                   "{{ package_name }}\n",
	})
	dst := afero.NewMemMapFs()

	n, err := Render(context.Background(), src, "/tpl", dst, "/out/repo", map[string]string{"package_name": "my_pkg"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := afero.ReadFile(dst, "/out/repo/my_pkg/__init__.py")
	require.NoError(t, err)
	assert.Equal(t, "name = \"my_pkg\"\n", string(data))

	data, err = afero.ReadFile(dst, "/out/repo/docs/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG\x00{{ package_name }}", string(data))

	for _, skipped := range []string{
		"/out/repo/my_pkg/__pycache__",
		"/out/repo/my_pkg/cached.pyc",
		"/out/repo/docs/.DS_Store",
	} {
		ok, err := afero.Exists(dst, skipped)
		require.NoError(t, err)
		assert.False(t, ok, skipped)
	}
}

func TestRenderUnknownVariable(t *testing.T) {
	src := afero.NewMemMapFs()
	writeTree(t, src, map[string]string{"/tpl/a.txt": "{{ nope }}"})

	_, err := Render(context.Background(), src, "/tpl", afero.NewMemMapFs(), "/out", map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestRenderCanceled(t *testing.T) {
	src := afero.NewMemMapFs()
	writeTree(t, src, map[string]string{"/tpl/a.txt": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Render(ctx, src, "/tpl", afero.NewMemMapFs(), "/out", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsBinary(t *testing.T) {
	assert.False(t, IsBinary([]byte("plain ü text")))
	assert.True(t, IsBinary([]byte{0x00, 0x01}))
	assert.True(t, IsBinary([]byte{0xff, 0xfe, 'a'}))
}

func TestInitBuiltinTemplate(t *testing.T) {
	dst := afero.NewMemMapFs()
	opts := Options{
		PackageName:    "my_pkg",
		GithubUsername: "octocat",
		SupportedPyVer: []string{"3.8.11"},
		AuthorName:     "Alice",
		DocService:     "rtd",
		RTDName:        "my-pkg",
	}

	res, err := Init(context.Background(), opts, "1.0.0", dst, "/work")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/work", "my_pkg-project"), res.Dir)
	assert.Greater(t, res.Files, 5)

	initPy, err := afero.ReadFile(dst, filepath.Join(res.Dir, "my_pkg", "__init__.py"))
	require.NoError(t, err)
	assert.Contains(t, string(initPy), "__author__ = \"Alice\"\n__author_email__")
	assert.NotContains(t, string(initPy), "{%")

	readme, err := afero.ReadFile(dst, filepath.Join(res.Dir, "README.rst"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "https://my-pkg.readthedocs.io")

	require.NoError(t, dst.MkdirAll(filepath.Join(res.Dir, ".git"), 0o755))
	r, err := repoconfig.Load(
		configirl.WithFs(dst),
		configirl.WithAttr(repoconfig.AttrWorkDir, filepath.Join(res.Dir, "my_pkg")),
		configirl.WithAttr(repoconfig.AttrHomeDir, "/home/alice"),
	)
	require.NoError(t, err)
	name, err := r.PackageName()
	require.NoError(t, err)
	assert.Equal(t, "my_pkg", name)
	assert.Equal(t, "0.0.1", r.PackageVersion())

	_, err = Init(context.Background(), opts, "1.0.0", dst, "/work")
	assert.Error(t, err, "existing output directory")
}
