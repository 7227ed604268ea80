package configirl

import (
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	perrors "github.com/ajitpratap0/pygitrepo/pkg/errors"
	"github.com/ajitpratap0/pygitrepo/pkg/json"
)

// DumpOption adjusts ToDict, ToJSON and ToYAML.
type DumpOption func(*dumpOptions)

type dumpOptions struct {
	checkDump   bool
	checkPrint  bool
	ignoreUnset bool
	keyPrefix   string
}

// WithCheckDump controls whether fields hidden from dumps are left out.
// It defaults to true.
func WithCheckDump(on bool) DumpOption {
	return func(o *dumpOptions) { o.checkDump = on }
}

// WithCheckPrint controls whether fields hidden from print are redacted.
func WithCheckPrint(on bool) DumpOption {
	return func(o *dumpOptions) { o.checkPrint = on }
}

// WithIgnoreUnset leaves out fields whose value is not set instead of failing.
func WithIgnoreUnset(on bool) DumpOption {
	return func(o *dumpOptions) { o.ignoreUnset = on }
}

// WithKeyPrefix prepends prefix to every key.
func WithKeyPrefix(prefix string) DumpOption {
	return func(o *dumpOptions) { o.keyPrefix = prefix }
}

// ToDict reads every field in declaration order. A field hidden from dumps is
// omitted under the dump check; an unset field fails the call unless
// WithIgnoreUnset is on. Any other error fails the call.
func (c *Config) ToDict(opts ...DumpOption) (*Dict, error) {
	o := dumpOptions{checkDump: true}
	for _, opt := range opts {
		opt(&o)
	}

	get := getOptions{checkDump: o.checkDump, checkPrint: o.checkPrint}
	d := NewDict()
	for _, name := range c.schema.order {
		v, err := c.fields[name].get(get)
		if err != nil {
			if IsNotDumpable(err) {
				continue
			}
			if o.ignoreUnset && IsValueNotSet(err) {
				continue
			}
			return nil, err
		}
		d.Set(o.keyPrefix+name, v)
	}
	return d, nil
}

// ToJSON is ToDict encoded with four-space indentation.
func (c *Config) ToJSON(opts ...DumpOption) (string, error) {
	d, err := c.ToDict(opts...)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(d)
	if err != nil {
		return "", perrors.Wrap(err, perrors.ErrorTypeInternal, "failed to encode config as JSON")
	}
	return string(out), nil
}

// ToYAML is ToDict encoded as YAML.
func (c *Config) ToYAML(opts ...DumpOption) (string, error) {
	d, err := c.ToDict(opts...)
	if err != nil {
		return "", err
	}
	out, err := yaml.Marshal(d)
	if err != nil {
		return "", perrors.Wrap(err, perrors.ErrorTypeInternal, "failed to encode config as YAML")
	}
	return string(out), nil
}

// Target names a downstream tool that consumes a dumped config file.
type Target string

const (
	TargetPython         Target = "python"
	TargetShellScript    Target = "shell-script"
	TargetCloudFormation Target = "cloudformation"
	TargetSAM            Target = "sam"
	TargetServerless     Target = "serverless"
	TargetTerraform      Target = "terraform"
)

var allTargets = []Target{
	TargetPython,
	TargetShellScript,
	TargetCloudFormation,
	TargetSAM,
	TargetServerless,
	TargetTerraform,
}

// Targets returns every known target.
func Targets() []Target { return append([]Target(nil), allTargets...) }

// ParseTarget resolves a target name.
func ParseTarget(s string) (Target, error) {
	for _, t := range allTargets {
		if string(t) == s {
			return t, nil
		}
	}
	return "", perrors.Newf(perrors.ErrorTypeConfig, "unknown dump target %q", s).
		WithDetail("target", s)
}

// FileName returns the well-known file name of the target's dump.
func (t Target) FileName() string {
	return "config-final-for-" + string(t) + ".json"
}

// TargetData returns the dump for t. CloudFormation parameters take
// UpperCamelCase keys; every other target takes the field names as is.
func (c *Config) TargetData(t Target) (*Dict, error) {
	if _, err := ParseTarget(string(t)); err != nil {
		return nil, err
	}
	d, err := c.ToDict()
	if err != nil {
		return nil, err
	}
	if t != TargetCloudFormation {
		return d, nil
	}

	out := NewDict()
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		out.Set(BigCamelCase(k), v)
	}
	return out, nil
}

// TargetFile returns the dump path of t inside the config directory.
func (c *Config) TargetFile(t Target) (string, error) {
	return c.joinConfigDir(t.FileName())
}

// DumpTarget writes the JSON dump of t to its file in the config directory.
// An existing file is an error unless overwrite is true.
func (c *Config) DumpTarget(t Target, overwrite bool) (string, error) {
	path, err := c.TargetFile(t)
	if err != nil {
		return "", err
	}
	d, err := c.TargetData(t)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(d)
	if err != nil {
		return "", perrors.Wrap(err, perrors.ErrorTypeInternal, "failed to encode config as JSON")
	}
	if err := writeFile(c.fs, path, out, overwrite); err != nil {
		return "", err
	}
	c.log.Debug("dumped config", zap.String("target", string(t)), zap.String("path", path))
	return path, nil
}

// DumpAll writes every target and returns the written paths. It stops at the
// first failure.
func (c *Config) DumpAll(overwrite bool) ([]string, error) {
	paths := make([]string, 0, len(allTargets))
	for _, t := range allTargets {
		path, err := c.DumpTarget(t, overwrite)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(fs afero.Fs, path string, data []byte, overwrite bool) error {
	if !overwrite {
		exists, err := afero.Exists(fs, path)
		if err != nil {
			return perrors.Wrap(err, perrors.ErrorTypeFile, "failed to stat dump file").
				WithDetail("path", path)
		}
		if exists {
			return perrors.Newf(perrors.ErrorTypeFile, "%s already exists!", path).
				WithDetail("path", path)
		}
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return perrors.Wrap(err, perrors.ErrorTypeFile, "failed to write dump file").
			WithDetail("path", path)
	}
	return nil
}

// BigCamelCase turns PROJECT_NAME into ProjectName.
func BigCamelCase(key string) string {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)
	var b strings.Builder
	for _, word := range strings.Split(key, "_") {
		if word == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(word)
		b.WriteString(upper.String(word[:size]))
		b.WriteString(lower.String(word[size:]))
	}
	return b.String()
}
