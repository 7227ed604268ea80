package configirl

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func projectSchema(t *testing.T) *Schema {
	t.Helper()
	s := MustDefine("Project", []*Field{
		Constant("PROJECT_NAME"),
		Constant("STAGE", Default("dev")),
		Constant("TAGS", Default(map[string]any{"owner": "ops"})),
		Derivable("PROJECT_NAME_SLUG"),
	})
	s.MustBindGetter("PROJECT_NAME_SLUG", func(c *Config, _ Args) (any, error) {
		name, err := c.GetString("PROJECT_NAME")
		if err != nil {
			return nil, err
		}
		stage, err := c.GetString("STAGE")
		if err != nil {
			return nil, err
		}
		return name + "-" + stage, nil
	})
	return s
}

func TestNewAppliesConstants(t *testing.T) {
	s := projectSchema(t)
	c, err := s.New(map[string]any{"PROJECT_NAME": "demo", "UNKNOWN": 1})
	require.NoError(t, err)

	v, err := c.Get("PROJECT_NAME_SLUG")
	require.NoError(t, err)
	assert.Equal(t, "demo-dev", v)
	assert.Same(t, s, c.Schema())
}

func TestNewRejectsDerivableKey(t *testing.T) {
	s := projectSchema(t)
	_, err := s.New(map[string]any{"PROJECT_NAME_SLUG": "x"})
	require.Error(t, err)
	assert.True(t, IsDerivableImmutable(err))
	assert.Panics(t, func() { s.MustNew(map[string]any{"PROJECT_NAME_SLUG": "x"}) })
}

func TestInstanceIsolation(t *testing.T) {
	s := projectSchema(t)
	a := s.MustNew(nil)
	b := s.MustNew(nil)

	require.NoError(t, a.Set("STAGE", "prod"))
	v, err := b.Get("STAGE")
	require.NoError(t, err)
	assert.Equal(t, "dev", v)

	tags, err := a.Get("TAGS")
	require.NoError(t, err)
	tags.(map[string]any)["owner"] = "someone else"
	tags, err = b.Get("TAGS")
	require.NoError(t, err)
	assert.Equal(t, "ops", tags.(map[string]any)["owner"])

	_, err = b.Get("PROJECT_NAME")
	assert.True(t, IsValueNotSet(err))
}

func TestUpdate(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := projectSchema(t)
	c := s.MustNew(nil, WithLogger(zap.New(core)))

	applied, err := c.Update(map[string]any{
		"PROJECT_NAME":      "demo",
		"PROJECT_NAME_SLUG": "ignored",
		"NOT_A_FIELD":       true,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"PROJECT_NAME": "demo"}, applied)

	entries := logs.FilterMessage("config updated").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Project", entries[0].ContextMap()["config_type"])
}

func TestGetUnknownField(t *testing.T) {
	c := projectSchema(t).MustNew(nil)
	_, err := c.Get("NOPE")
	assert.Error(t, err)
	assert.Error(t, c.Set("NOPE", 1))
	_, ok := c.Field("NOPE")
	assert.False(t, ok)
	assert.Panics(t, func() { c.MustField("NOPE") })
}

func TestGetString(t *testing.T) {
	s := MustDefine("Stringy", []*Field{
		Constant("TEXT", Default("x")),
		Constant("EMPTY", Default(nil)),
		Constant("NUMBER", Default(1)),
	})
	c := s.MustNew(nil)

	v, err := c.GetString("TEXT")
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	v, err = c.GetString("EMPTY")
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = c.GetString("NUMBER")
	assert.Error(t, err)
}

func TestUpdateFromJSON(t *testing.T) {
	c := projectSchema(t).MustNew(nil)
	applied, err := c.UpdateFromJSON(`{
    // project settings
    "PROJECT_NAME": "demo", # inline
    "STAGE": "prod"
}`)
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	v, err := c.Get("PROJECT_NAME_SLUG")
	require.NoError(t, err)
	assert.Equal(t, "demo-prod", v)

	_, err = c.UpdateFromJSON(`{"PROJECT_NAME": }`)
	assert.Error(t, err)
}

func TestUpdateFromRawFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/config", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/repo/config/config-raw.json",
		[]byte(`{"PROJECT_NAME": "from-file"}`), 0o644))

	s := projectSchema(t)
	c := s.MustNew(nil, WithFs(fs))

	_, err := c.UpdateFromRawFile()
	require.Error(t, err, "config dir is required")

	c.SetConfigDir("/missing")
	_, err = c.UpdateFromRawFile()
	require.Error(t, err)

	c.SetConfigDir("/repo/config")
	assert.Equal(t, "/repo/config", c.ConfigDir())
	_, err = c.UpdateFromRawFile()
	require.NoError(t, err)

	v, err := c.Get("PROJECT_NAME")
	require.NoError(t, err)
	assert.Equal(t, "from-file", v)

	loaded, err := s.FromJSONFile("/repo/config/config-raw.json", WithFs(fs))
	require.NoError(t, err)
	v, err = loaded.Get("PROJECT_NAME")
	require.NoError(t, err)
	assert.Equal(t, "from-file", v)

	_, err = s.FromJSONFile("/repo/config/absent.json", WithFs(fs))
	assert.Error(t, err)
}

func TestUpdateFromEnv(t *testing.T) {
	env := func() []string {
		return []string{
			"PGR_PROJECT_NAME=env-demo",
			"PGR_PROJECT_NAME_SLUG=ignored",
			"PGR_=empty",
			"STAGE=unprefixed",
			"malformed",
		}
	}
	s := projectSchema(t)
	c, err := s.FromEnv("PGR_", WithEnviron(env))
	require.NoError(t, err)

	v, err := c.Get("PROJECT_NAME")
	require.NoError(t, err)
	assert.Equal(t, "env-demo", v)

	v, err = c.Get("STAGE")
	require.NoError(t, err)
	assert.Equal(t, "dev", v)
}

func TestValidateFailFast(t *testing.T) {
	s := MustDefine("Validated", []*Field{
		Constant("FIRST", Default("")),
		Constant("SECOND", Default("")),
		Constant("FREE", Default("anything")),
	})
	var seen []string
	reject := func(name string) Validator {
		return func(_ *Config, v any) error {
			seen = append(seen, name)
			if v == "" {
				return errors.New("must not be empty")
			}
			return nil
		}
	}
	s.MustBindValidator("FIRST", reject("FIRST"))
	s.MustBindValidator("SECOND", reject("SECOND"))
	c := s.MustNew(nil)

	err := c.Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "Validated.FIRST")
	assert.Equal(t, []string{"FIRST"}, seen)

	require.NoError(t, c.Set("FIRST", "a"))
	require.NoError(t, c.Set("SECOND", "b"))
	assert.NoError(t, c.Validate())
}

func TestValidateReadsEveryValue(t *testing.T) {
	s := MustDefine("Unresolved", []*Field{Constant("A"), Derivable("B")})
	c := s.MustNew(nil)

	err := c.Validate()
	require.Error(t, err)
	assert.True(t, IsValueNotSet(err))
	assert.Contains(t, err.Error(), "Unresolved.A")

	require.NoError(t, c.Set("A", "set"))
	err = c.Validate()
	require.Error(t, err)
	assert.True(t, IsGetterNotImplemented(err))

	s.MustBindGetter("B", func(*Config, Args) (any, error) { return "b", nil })
	c = s.MustNew(map[string]any{"A": "set"})
	assert.NoError(t, c.Validate())
}

func TestRuntime(t *testing.T) {
	c := projectSchema(t).MustNew(nil, WithEnviron(func() []string {
		return []string{"CODEBUILD_BUILD_ID=build:1", "HOME=/home/ec2-user", "CI=true", "GITLAB_CI=true"}
	}))
	rt := c.Runtime()
	assert.False(t, rt.IsAWSLambda())
	assert.True(t, rt.IsAWSCodeBuild())
	assert.True(t, rt.IsEC2())
	assert.True(t, rt.IsCI())
	assert.True(t, rt.IsGitlabCI())
	assert.False(t, rt.IsCircleCI())
	assert.False(t, rt.IsTravisCI())
}

func TestString(t *testing.T) {
	s := MustDefine("Printable", []*Field{
		Constant("USER", Default("alice")),
		Constant("PASSWORD", Default("hunter2"), HideFromPrint()),
		Constant("LOCAL_ONLY", Default("x"), HideFromDump()),
		Constant("UNSET"),
	})
	out := s.MustNew(nil).String()

	assert.Contains(t, out, `"USER": "alice"`)
	assert.Contains(t, out, `"PASSWORD": "***HIDDEN***"`)
	assert.Contains(t, out, `"LOCAL_ONLY": "x"`)
	assert.NotContains(t, out, "UNSET")
	assert.NotContains(t, out, "hunter2")
}
