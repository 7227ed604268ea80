package configirl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func greeterSchema(t *testing.T, greetingOpts ...FieldOption) *Schema {
	t.Helper()
	s, err := Define("Greeter", []*Field{
		Constant("NAME"),
		Derivable("GREETING", greetingOpts...),
	})
	require.NoError(t, err)
	require.NoError(t, s.BindGetter("GREETING", func(c *Config, _ Args) (any, error) {
		name, err := c.GetString("NAME")
		if err != nil {
			return nil, err
		}
		return "Hello, " + name, nil
	}))
	return s
}

func TestConstantDefault(t *testing.T) {
	calls := 0
	s, err := Define("Defaults", []*Field{
		Constant("LITERAL", Default("value")),
		Constant("PRODUCED", DefaultFunc(func() any {
			calls++
			return []any{"a", "b"}
		})),
		Constant("MISSING"),
	})
	require.NoError(t, err)

	c1 := s.MustNew(nil)
	c2 := s.MustNew(nil)
	assert.Equal(t, 1, calls)

	v, err := c1.Get("LITERAL")
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = c1.Get("PRODUCED")
	require.NoError(t, err)
	v.([]any)[0] = "changed"
	v, err = c2.Get("PRODUCED")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, v)

	_, err = c1.Get("MISSING")
	require.Error(t, err)
	assert.True(t, IsValueNotSet(err))
	assert.Contains(t, err.Error(), "Defaults.MISSING")
}

func TestNilDefaultIsSet(t *testing.T) {
	s := MustDefine("NilDefault", []*Field{Constant("OPTIONAL", Default(nil))})
	v, err := s.MustNew(nil).Get("OPTIONAL")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestUnboundField(t *testing.T) {
	f := Constant("LOOSE")
	_, err := f.GetValue()
	assert.True(t, IsUnbound(err))
	assert.True(t, IsUnbound(f.SetValue(1)))

	s := MustDefine("Holder", []*Field{Constant("HELD")})
	tmpl, ok := s.Field("HELD")
	require.True(t, ok)
	assert.False(t, tmpl.Bound())
	_, err = tmpl.GetValue()
	assert.True(t, IsUnbound(err))

	bound := s.MustNew(nil).MustField("HELD")
	assert.True(t, bound.Bound())
}

func TestDerivableImmutable(t *testing.T) {
	loose := Derivable("LOOSE")
	assert.True(t, IsDerivableImmutable(loose.SetValue("x")))

	unboundGetter := MustDefine("NoGetter", []*Field{Derivable("COMPUTED")})
	assert.True(t, IsDerivableImmutable(unboundGetter.MustNew(nil).Set("COMPUTED", "x")))

	s := greeterSchema(t)
	c := s.MustNew(map[string]any{"NAME": "World"})
	err := c.Set("GREETING", "x")
	assert.True(t, IsDerivableImmutable(err))
	assert.Contains(t, err.Error(), "Greeter.GREETING")
}

func TestGetterNotImplemented(t *testing.T) {
	s := MustDefine("Incomplete", []*Field{Derivable("COMPUTED")})
	_, err := s.MustNew(nil).Get("COMPUTED")
	require.Error(t, err)
	assert.True(t, IsGetterNotImplemented(err))
}

func TestDerivableCache(t *testing.T) {
	counter := func(c *Config, _ Args) (any, error) {
		n, _ := c.Get("COUNT")
		next := n.(int) + 1
		_ = c.Set("COUNT", next)
		return next, nil
	}

	t.Run("cached", func(t *testing.T) {
		s := MustDefine("Cached", []*Field{Constant("COUNT", Default(0)), Derivable("NEXT", Cache())})
		s.MustBindGetter("NEXT", counter)
		c := s.MustNew(nil)

		first, err := c.Get("NEXT")
		require.NoError(t, err)
		second, err := c.Get("NEXT")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.True(t, c.MustField("NEXT").CacheEnabled())
	})

	t.Run("uncached", func(t *testing.T) {
		s := MustDefine("Uncached", []*Field{Constant("COUNT", Default(0)), Derivable("NEXT")})
		s.MustBindGetter("NEXT", counter)
		c := s.MustNew(nil)

		first, err := c.Get("NEXT")
		require.NoError(t, err)
		second, err := c.Get("NEXT")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("failures are not memoized", func(t *testing.T) {
		s := greeterSchema(t, Cache())
		c := s.MustNew(nil)

		_, err := c.Get("GREETING")
		require.Error(t, err)

		require.NoError(t, c.Set("NAME", "Earth"))
		v, err := c.Get("GREETING")
		require.NoError(t, err)
		assert.Equal(t, "Hello, Earth", v)
	})
}

func TestCacheIgnoredOnConstant(t *testing.T) {
	f := Constant("PLAIN", Cache())
	assert.False(t, f.CacheEnabled())
}

func TestDerivableDependencyNotSet(t *testing.T) {
	s := MustDefine("Chain", []*Field{
		Constant("ROOT"),
		Derivable("MIDDLE"),
		Derivable("LEAF"),
	})
	s.MustBindGetter("MIDDLE", func(c *Config, _ Args) (any, error) { return c.Get("ROOT") })
	s.MustBindGetter("LEAF", func(c *Config, _ Args) (any, error) { return c.Get("MIDDLE") })

	_, err := s.MustNew(nil).Get("LEAF")
	require.Error(t, err)
	assert.True(t, IsValueNotSet(err))
	assert.Contains(t, err.Error(), "Chain.LEAF")

	dep, ok := Dependency(err)
	require.True(t, ok)
	assert.Equal(t, "ROOT", dep)
}

func TestGetterArgs(t *testing.T) {
	s := MustDefine("WithArgs", []*Field{Derivable("ECHO")})
	s.MustBindGetter("ECHO", func(_ *Config, args Args) (any, error) {
		return args["word"], nil
	})
	c := s.MustNew(nil)

	v, err := c.Get("ECHO", WithArgs(Args{"word": "hi"}))
	require.NoError(t, err)
	assert.Equal(t, "hi", v)

	v, err = c.Get("ECHO")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestGetterErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	s := MustDefine("Failing", []*Field{Derivable("BROKEN")})
	s.MustBindGetter("BROKEN", func(*Config, Args) (any, error) { return nil, boom })

	_, err := s.MustNew(nil).Get("BROKEN")
	assert.ErrorIs(t, err, boom)
}

func TestVisibility(t *testing.T) {
	s := MustDefine("Secretive", []*Field{
		Constant("INTERNAL", Default("i"), HideFromDump()),
		Constant("PASSWORD", Default("hunter2"), HideFromPrint()),
	})
	c := s.MustNew(nil)

	_, err := c.Get("INTERNAL", CheckDump())
	assert.True(t, IsNotDumpable(err))
	v, err := c.Get("INTERNAL")
	require.NoError(t, err)
	assert.Equal(t, "i", v)

	v, err = c.Get("PASSWORD", CheckPrint())
	require.NoError(t, err)
	assert.Equal(t, Redacted, v)
	v, err = c.Get("PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", v)

	assert.False(t, c.MustField("INTERNAL").VisibleInDump())
	assert.False(t, c.MustField("PASSWORD").VisibleInPrint())
}

func TestFieldValidate(t *testing.T) {
	s := MustDefine("Checked", []*Field{Constant("PORT", Default(0))})
	s.MustBindValidator("PORT", func(_ *Config, v any) error {
		if v.(int) <= 0 {
			return errors.New("port must be positive")
		}
		return nil
	})
	c := s.MustNew(nil)

	err := c.MustField("PORT").Validate()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "Checked.PORT")

	require.NoError(t, c.Set("PORT", 8080))
	assert.NoError(t, c.MustField("PORT").Validate())
}

func TestValueFromEnv(t *testing.T) {
	s := MustDefine("Envy", []*Field{Constant("REGION", Default("us-east-1"))})
	env := []string{"APP_REGION=eu-west-1"}
	c := s.MustNew(nil, WithEnviron(func() []string { return env }))

	v, err := c.MustField("REGION").ValueFromEnv("APP_")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", v)

	_, err = c.MustField("REGION").ValueFromEnv("OTHER_")
	assert.Error(t, err)

	lv, err := c.MustField("REGION").ValueForLambda("APP_")
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", lv)

	env = append(env, "AWS_LAMBDA_FUNCTION_NAME=handler")
	lv, err = c.MustField("REGION").ValueForLambda("APP_")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", lv)
}

func TestCloneValueKeepsNil(t *testing.T) {
	var m map[string]any
	assert.Nil(t, cloneValue(m))
	var l []any
	assert.Nil(t, cloneValue(l))

	nested := map[string]any{"list": []any{map[string]any{"k": "v"}}}
	out := cloneValue(nested).(map[string]any)
	out["list"].([]any)[0].(map[string]any)["k"] = "changed"
	assert.Equal(t, "v", nested["list"].([]any)[0].(map[string]any)["k"])
}
