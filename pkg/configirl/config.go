package configirl

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	perrors "github.com/ajitpratap0/pygitrepo/pkg/errors"
	"github.com/ajitpratap0/pygitrepo/pkg/logger"
)

// RawConfigFile is the hand written, comment tolerant input file kept in the
// config directory.
const RawConfigFile = "config-raw.json"

// Config is a configuration instance. It owns private copies of its schema's
// fields, so instances never observe each other's writes. A single Config is
// not safe for concurrent mutation.
type Config struct {
	schema    *Schema
	fields    map[string]*Field
	fs        afero.Fs
	environ   func() []string
	configDir string
	attrs     map[string]any
	log       *zap.Logger
}

// Option configures a Config at construction.
type Option func(*Config)

// WithFs sets the filesystem used by file loaders and dumps.
func WithFs(fs afero.Fs) Option {
	return func(c *Config) { c.fs = fs }
}

// WithEnviron sets the accessor used for environment variables. It returns
// "KEY=value" pairs like os.Environ.
func WithEnviron(fn func() []string) Option {
	return func(c *Config) { c.environ = fn }
}

// WithConfigDir sets the directory holding the raw and final config files.
func WithConfigDir(dir string) Option {
	return func(c *Config) { c.configDir = dir }
}

// WithAttr attaches a value that Getters can read with Attr. It carries
// inputs such as a working directory that are not fields.
func WithAttr(key string, v any) Option {
	return func(c *Config) {
		if c.attrs == nil {
			c.attrs = make(map[string]any)
		}
		c.attrs[key] = v
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) { c.log = l }
}

// New creates an instance of the schema and applies values to its Constant
// fields. Unknown keys are ignored; a Derivable key is an error.
func (s *Schema) New(values map[string]any, opts ...Option) (*Config, error) {
	c := &Config{
		schema:  s,
		fields:  make(map[string]*Field, len(s.order)),
		fs:      afero.NewOsFs(),
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get()
	}
	c.log = c.log.With(zap.String("config_type", s.name))

	for _, name := range s.order {
		c.fields[name] = s.fields[name].clone(c)
	}

	for _, key := range sortedKeys(values) {
		f, ok := c.fields[key]
		if !ok {
			c.log.Debug("ignoring unknown key", zap.String("key", key))
			continue
		}
		if f.def.kind == KindDerivable {
			return nil, perrors.Newf(perrors.ErrorTypeDerivableImmutable,
				"%s is a Derivable field, it can't be passed to the constructor", f.qualifiedName()).
				WithDetail("field", key)
		}
		if err := f.SetValue(values[key]); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is New that panics on error.
func (s *Schema) MustNew(values map[string]any, opts ...Option) *Config {
	c, err := s.New(values, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// FromDict creates an instance and loads d with Update semantics: only
// Constant keys are applied, everything else is ignored.
func (s *Schema) FromDict(d map[string]any, opts ...Option) (*Config, error) {
	c, err := s.New(nil, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := c.Update(d); err != nil {
		return nil, err
	}
	return c, nil
}

// FromJSON creates an instance from comment tolerant JSON text.
func (s *Schema) FromJSON(text string, opts ...Option) (*Config, error) {
	c, err := s.New(nil, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := c.UpdateFromJSON(text); err != nil {
		return nil, err
	}
	return c, nil
}

// FromJSONFile creates an instance from a comment tolerant JSON file.
func (s *Schema) FromJSONFile(path string, opts ...Option) (*Config, error) {
	c, err := s.New(nil, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := c.UpdateFromJSONFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

// FromEnv creates an instance from environment variables carrying prefix.
func (s *Schema) FromEnv(prefix string, opts ...Option) (*Config, error) {
	c, err := s.New(nil, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := c.UpdateFromEnv(prefix); err != nil {
		return nil, err
	}
	return c, nil
}

// Schema returns the configuration type of c.
func (c *Config) Schema() *Schema { return c.schema }

// Fs returns the filesystem c reads and writes.
func (c *Config) Fs() afero.Fs { return c.fs }

// Runtime returns runtime detection over c's environment.
func (c *Config) Runtime() Runtime { return NewRuntime(c.environ) }

// Field returns the bound field name.
func (c *Config) Field(name string) (*Field, bool) {
	f, ok := c.fields[name]
	return f, ok
}

// MustField returns the bound field name and panics if the schema lacks it.
func (c *Config) MustField(name string) *Field {
	f, ok := c.fields[name]
	if !ok {
		panic(perrors.Newf(perrors.ErrorTypeSchema, "%s has no field %s", c.schema.name, name))
	}
	return f
}

// Get returns the value of field name.
func (c *Config) Get(name string, opts ...GetOption) (any, error) {
	f, ok := c.fields[name]
	if !ok {
		return nil, c.unknownField(name)
	}
	return f.GetValue(opts...)
}

// GetString returns the value of field name as a string. A nil value yields
// an empty string.
func (c *Config) GetString(name string, opts ...GetOption) (string, error) {
	v, err := c.Get(name, opts...)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	default:
		return "", perrors.Newf(perrors.ErrorTypeConfig,
			"%s.%s holds %T, not a string", c.schema.name, name, v).
			WithDetail("field", name)
	}
}

// Set writes the value of field name.
func (c *Config) Set(name string, v any) error {
	f, ok := c.fields[name]
	if !ok {
		return c.unknownField(name)
	}
	return f.SetValue(v)
}

// Update applies the keys of d that name Constant fields and returns the
// applied subset. Derivable and unknown keys are ignored.
func (c *Config) Update(d map[string]any) (map[string]any, error) {
	applied := make(map[string]any)
	var ignored []string
	for _, key := range sortedKeys(d) {
		f, ok := c.fields[key]
		if !ok || f.def.kind != KindConstant {
			ignored = append(ignored, key)
			continue
		}
		if err := f.SetValue(d[key]); err != nil {
			return applied, err
		}
		applied[key] = d[key]
	}
	c.log.Debug("config updated",
		zap.Int("applied", len(applied)),
		zap.Strings("ignored", ignored))
	return applied, nil
}

// UpdateFromJSON loads comment tolerant JSON text with Update semantics.
func (c *Config) UpdateFromJSON(text string) (map[string]any, error) {
	d, err := ParseJSON(text)
	if err != nil {
		return nil, err
	}
	return c.Update(d)
}

// UpdateFromJSONFile loads a comment tolerant JSON file with Update semantics.
func (c *Config) UpdateFromJSONFile(path string) (map[string]any, error) {
	d, err := ReadJSONFile(c.fs, path)
	if err != nil {
		return nil, err
	}
	c.log.Debug("loading config file", zap.String("path", path))
	return c.Update(d)
}

// UpdateFromRawFile loads config-raw.json from the config directory.
func (c *Config) UpdateFromRawFile() (map[string]any, error) {
	path, err := c.RawFile()
	if err != nil {
		return nil, err
	}
	return c.UpdateFromJSONFile(path)
}

// UpdateFromEnv loads environment variables whose name starts with prefix.
// The prefix is stripped before matching field names; values stay strings.
func (c *Config) UpdateFromEnv(prefix string) (map[string]any, error) {
	d := make(map[string]any)
	for _, kv := range c.environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		name := strings.TrimPrefix(key, prefix)
		if name == "" {
			continue
		}
		d[name] = value
	}
	return c.Update(d)
}

// Validate runs every field validator in declaration order and returns the
// first failure.
func (c *Config) Validate() error {
	for _, name := range c.schema.order {
		if err := c.fields[name].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SetConfigDir sets the directory holding the raw and final config files.
func (c *Config) SetConfigDir(dir string) { c.configDir = dir }

// ConfigDir returns the config directory, empty when unset.
func (c *Config) ConfigDir() string { return c.configDir }

// RawFile returns the path of config-raw.json inside the config directory.
func (c *Config) RawFile() (string, error) {
	return c.joinConfigDir(RawConfigFile)
}

func (c *Config) joinConfigDir(filename string) (string, error) {
	if c.configDir == "" {
		return "", perrors.Newf(perrors.ErrorTypeConfig,
			"you have to specify the config dir of %s", c.schema.name)
	}
	ok, err := afero.DirExists(c.fs, c.configDir)
	if err != nil {
		return "", perrors.Wrap(err, perrors.ErrorTypeFile, "failed to stat config dir").
			WithDetail("path", c.configDir)
	}
	if !ok {
		return "", perrors.Newf(perrors.ErrorTypeConfig,
			"config dir of %s ('%s') doesn't exist", c.schema.name, c.configDir).
			WithDetail("path", c.configDir)
	}
	return filepath.Join(c.configDir, filename), nil
}

// Attr returns a value attached with WithAttr.
func (c *Config) Attr(key string) (any, bool) {
	v, ok := c.attrs[key]
	return v, ok
}

// LookupEnv reads key from c's environment.
func (c *Config) LookupEnv(key string) (string, bool) {
	prefix := key + "="
	for _, kv := range c.environ() {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):], true
		}
	}
	return "", false
}

func (c *Config) unknownField(name string) error {
	return perrors.Newf(perrors.ErrorTypeConfig, "%s has no field %s", c.schema.name, name).
		WithDetail("field", name)
}

// String renders the instance for display: hidden-from-print values are
// redacted and unset values are left out.
func (c *Config) String() string {
	text, err := c.ToJSON(WithCheckDump(false), WithCheckPrint(true), WithIgnoreUnset(true))
	if err != nil {
		return "Config(<" + err.Error() + ">)"
	}
	return "Config(" + text + ")"
}

func sortedKeys(d map[string]any) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
