package configirl

import (
	"fmt"
	"sync/atomic"

	perrors "github.com/ajitpratap0/pygitrepo/pkg/errors"
)

// Redacted is returned instead of the real value of a field hidden from print
// when the caller asks for a print check.
const Redacted = "***HIDDEN***"

// Kind tells a settable field from a computed one.
type Kind int

const (
	// KindConstant fields hold a directly settable value.
	KindConstant Kind = iota + 1
	// KindDerivable fields are computed on demand by a bound Getter.
	KindDerivable
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "Constant"
	case KindDerivable:
		return "Derivable"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Args carries caller supplied keyword arguments through to a Getter.
type Args map[string]any

// Getter computes the value of a Derivable field from its owning Config.
type Getter func(c *Config, args Args) (any, error)

// Validator rejects an unacceptable field value by returning an error.
type Validator func(c *Config, value any) error

// creationIndex orders field declarations process wide.
var creationIndex atomic.Uint64

// fieldDef is the immutable part of a field declaration. It is shared by the
// schema templates and every instance copy.
type fieldDef struct {
	name       string
	kind       Kind
	index      uint64
	dontDump   bool
	hidePrint  bool
	cache      bool
	hasDefault bool
	defaultVal any

	// declaredBy is the schema that collected this definition as its own.
	declaredBy *Schema
}

// Field is a named configuration slot. Templates returned by Constant and
// Derivable are unbound; each Config owns private bound copies.
type Field struct {
	def       *fieldDef
	getter    Getter
	validator Validator
	owner     *Config

	// value holds the Constant value or the cached Derivable value.
	value any
	set   bool
}

// FieldOption configures a field declaration.
type FieldOption func(*fieldDef)

// Default sets a literal default value for a Constant field.
func Default(v any) FieldOption {
	return func(d *fieldDef) {
		d.hasDefault = true
		d.defaultVal = v
	}
}

// DefaultFunc sets a default produced by fn. fn is called once, when the
// field is declared.
func DefaultFunc(fn func() any) FieldOption {
	return func(d *fieldDef) {
		d.hasDefault = true
		d.defaultVal = fn()
	}
}

// HideFromDump makes the field fail dump-checked reads, so it never reaches
// a file written by a dump.
func HideFromDump() FieldOption {
	return func(d *fieldDef) { d.dontDump = true }
}

// HideFromPrint makes print-checked reads return Redacted.
func HideFromPrint() FieldOption {
	return func(d *fieldDef) { d.hidePrint = true }
}

// Cache memoizes the first successful computation of a Derivable field for
// the lifetime of the owning Config. It has no effect on Constant fields.
func Cache() FieldOption {
	return func(d *fieldDef) { d.cache = true }
}

// Constant declares a settable field.
func Constant(name string, opts ...FieldOption) *Field {
	return newField(name, KindConstant, opts)
}

// Derivable declares a computed field. Its Getter is bound on the schema with
// Schema.BindGetter.
func Derivable(name string, opts ...FieldOption) *Field {
	return newField(name, KindDerivable, opts)
}

func newField(name string, kind Kind, opts []FieldOption) *Field {
	def := &fieldDef{
		name:  name,
		kind:  kind,
		index: creationIndex.Add(1),
	}
	for _, opt := range opts {
		opt(def)
	}
	if kind == KindDerivable {
		def.hasDefault = false
		def.defaultVal = nil
	} else {
		def.cache = false
	}

	f := &Field{def: def}
	if def.hasDefault {
		f.value = cloneValue(def.defaultVal)
		f.set = true
	}
	return f
}

// Name returns the field name.
func (f *Field) Name() string { return f.def.name }

// Kind returns whether the field is Constant or Derivable.
func (f *Field) Kind() Kind { return f.def.kind }

// VisibleInDump reports whether dump-checked reads may return the value.
func (f *Field) VisibleInDump() bool { return !f.def.dontDump }

// VisibleInPrint reports whether print-checked reads return the real value.
func (f *Field) VisibleInPrint() bool { return !f.def.hidePrint }

// CacheEnabled reports whether a Derivable field memoizes its value.
func (f *Field) CacheEnabled() bool { return f.def.cache }

// Bound reports whether the field belongs to a Config instance.
func (f *Field) Bound() bool { return f.owner != nil }

func (f *Field) String() string {
	return fmt.Sprintf("%s(name=%q, value=%v)", f.def.kind, f.def.name, f.value)
}

// clone copies the template into a field owned by c.
func (f *Field) clone(c *Config) *Field {
	return &Field{
		def:       f.def,
		getter:    f.getter,
		validator: f.validator,
		owner:     c,
		value:     cloneValue(f.value),
		set:       f.set,
	}
}

func (f *Field) qualifiedName() string {
	if f.owner != nil {
		return f.owner.schema.name + "." + f.def.name
	}
	if f.def.declaredBy != nil {
		return f.def.declaredBy.name + "." + f.def.name
	}
	return f.def.name
}

// SetValue overwrites the value of a Constant field. No validation runs.
// Derivable fields always reject it.
func (f *Field) SetValue(v any) error {
	if f.def.kind == KindDerivable {
		return perrors.Newf(perrors.ErrorTypeDerivableImmutable,
			"%s is a Derivable field, you cannot set value to it", f.qualifiedName()).
			WithDetail("field", f.def.name)
	}
	if f.owner == nil {
		return f.unboundError("SetValue")
	}
	f.value = v
	f.set = true
	return nil
}

// GetOption adjusts a single GetValue call.
type GetOption func(*getOptions)

type getOptions struct {
	checkDump  bool
	checkPrint bool
	args       Args
}

// CheckDump fails the read of a field hidden from dumps.
func CheckDump() GetOption {
	return func(o *getOptions) { o.checkDump = true }
}

// CheckPrint returns Redacted for a field hidden from print.
func CheckPrint() GetOption {
	return func(o *getOptions) { o.checkPrint = true }
}

// WithArgs passes keyword arguments to a Derivable Getter.
func WithArgs(args Args) GetOption {
	return func(o *getOptions) { o.args = args }
}

func buildGetOptions(opts []GetOption) getOptions {
	var o getOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// GetValue returns the field value.
func (f *Field) GetValue(opts ...GetOption) (any, error) {
	return f.get(buildGetOptions(opts))
}

func (f *Field) get(o getOptions) (any, error) {
	if f.owner == nil {
		return nil, f.unboundError("GetValue")
	}
	if o.checkDump && f.def.dontDump {
		return nil, perrors.Newf(perrors.ErrorTypeNotDumpable,
			"doesn't allow to dump `%s` field", f.def.name).
			WithDetail("field", f.def.name)
	}
	if o.checkPrint && f.def.hidePrint {
		return Redacted, nil
	}

	if f.def.kind == KindConstant {
		if !f.set {
			return nil, perrors.Newf(perrors.ErrorTypeValueNotSet,
				"%s has not set a value yet", f.qualifiedName()).
				WithDetail("field", f.def.name)
		}
		return f.value, nil
	}
	return f.derive(o.args)
}

func (f *Field) derive(args Args) (any, error) {
	if f.getter == nil {
		return nil, perrors.Newf(perrors.ErrorTypeGetterNotImplemented,
			"%s getter method is not implemented, bind one with BindGetter(%q, ...)",
			f.qualifiedName(), f.def.name).
			WithDetail("field", f.def.name)
	}
	if f.def.cache && f.set {
		return f.value, nil
	}
	if args == nil {
		args = Args{}
	}

	v, err := f.getter(f.owner, args)
	if err != nil {
		if perrors.HasType(err, perrors.ErrorTypeValueNotSet) {
			dep := dependencyOf(err)
			return nil, perrors.Wrap(err, perrors.ErrorTypeValueNotSet,
				fmt.Sprintf("can't get %s, because %s is not set", f.qualifiedName(), dep)).
				WithDetail("field", f.def.name).
				WithDetail("dependency", dep)
		}
		return nil, err
	}

	if f.def.cache {
		f.value = v
		f.set = true
	}
	return v, nil
}

// Validate reads the current value and runs the bound Validator against it.
// Read failures are returned as is; a field with no Validator passes once
// its value resolves.
func (f *Field) Validate() error {
	v, err := f.GetValue()
	if err != nil {
		return err
	}
	if f.validator == nil {
		return nil
	}
	if err := f.validator(f.owner, v); err != nil {
		return perrors.Wrap(err, perrors.ErrorTypeValidation,
			fmt.Sprintf("%s rejected its value", f.qualifiedName())).
			WithDetail("field", f.def.name).
			WithDetail("value", v)
	}
	return nil
}

// ValueFromEnv reads prefix+NAME from the owner's environment. Computation
// hosts without a config file, such as AWS Lambda, receive values this way.
func (f *Field) ValueFromEnv(prefix string) (string, error) {
	if f.owner == nil {
		return "", f.unboundError("ValueFromEnv")
	}
	key := prefix + f.def.name
	v, ok := f.owner.LookupEnv(key)
	if !ok {
		return "", perrors.Newf(perrors.ErrorTypeConfig,
			"environment variable %s is not set", key).
			WithDetail("field", f.def.name)
	}
	return v, nil
}

// ValueForLambda reads from the environment inside the AWS Lambda runtime and
// falls back to GetValue everywhere else.
func (f *Field) ValueForLambda(prefix string) (any, error) {
	if f.owner == nil {
		return nil, f.unboundError("ValueForLambda")
	}
	if f.owner.Runtime().IsAWSLambda() {
		return f.ValueFromEnv(prefix)
	}
	return f.GetValue()
}

func (f *Field) unboundError(op string) error {
	return perrors.Newf(perrors.ErrorTypeUnbound,
		"%s.%s() can't be called on a field that is not attached to a config instance",
		f.qualifiedName(), op).
		WithDetail("field", f.def.name)
}

// dependencyOf returns the name of the field that first reported unset.
func dependencyOf(err error) string {
	for err != nil {
		var e *perrors.Error
		if !perrors.As(err, &e) {
			break
		}
		if e.Type == perrors.ErrorTypeValueNotSet {
			if dep, ok := e.Detail("dependency"); ok {
				return fmt.Sprint(dep)
			}
			if name, ok := e.Detail("field"); ok {
				return fmt.Sprint(name)
			}
		}
		err = e.Cause
	}
	return "unknown"
}

// cloneValue copies the JSON shaped containers so instances never share them.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return t
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]string:
		if t == nil {
			return t
		}
		out := make(map[string]string, len(t))
		for k, e := range t {
			out[k] = e
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
