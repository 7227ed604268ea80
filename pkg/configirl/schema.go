package configirl

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	perrors "github.com/ajitpratap0/pygitrepo/pkg/errors"
)

var fieldNamePattern = regexp.MustCompile(`^[A-Z0-9_]+$`)

// declareMu guards fieldDef.declaredBy across concurrent Define calls.
var declareMu sync.Mutex

// Schema is the fixed, ordered set of fields of one configuration type.
type Schema struct {
	name       string
	parents    []*Schema
	order      []string
	fields     map[string]*Field
	constants  []string
	derivables []string
}

// Define collects the fields of a configuration type. Inherited fields come
// first: parents are read from the last listed to the first, each
// contributing its full ordered registry. The type's own fields follow in
// declaration order.
//
// The same declaration reached through two parents appears once. Two
// different declarations sharing a name are rejected, as are field names
// outside [A-Z0-9_] and fields already collected by another type.
func Define(typeName string, fields []*Field, parents ...*Schema) (*Schema, error) {
	if typeName == "" {
		return nil, perrors.New(perrors.ErrorTypeSchema, "configuration type name is required")
	}

	s := &Schema{
		name:    typeName,
		parents: append([]*Schema(nil), parents...),
		fields:  make(map[string]*Field),
	}

	for i := len(parents) - 1; i >= 0; i-- {
		p := parents[i]
		if p == nil {
			return nil, perrors.Newf(perrors.ErrorTypeSchema, "%s: parent %d is nil", typeName, i)
		}
		for _, name := range p.order {
			if err := s.add(p.fields[name], p.name); err != nil {
				return nil, err
			}
		}
	}

	own := make([]*Field, 0, len(fields))
	for i, f := range fields {
		if f == nil || f.def == nil {
			return nil, perrors.Newf(perrors.ErrorTypeSchema, "%s: field %d is nil", typeName, i)
		}
		own = append(own, f)
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].def.index < own[j].def.index })

	declareMu.Lock()
	defer declareMu.Unlock()

	for _, f := range own {
		if err := validateFieldName(typeName, f.def.name); err != nil {
			return nil, err
		}
		if f.def.declaredBy != nil && f.def.declaredBy != s {
			return nil, perrors.Newf(perrors.ErrorTypeSchema,
				"%s: field %s is already declared by %s, its name can't be reassigned",
				typeName, f.def.name, f.def.declaredBy.name).
				WithDetail("field", f.def.name)
		}
		if existing, ok := s.fields[f.def.name]; ok && existing.def == f.def {
			return nil, perrors.Newf(perrors.ErrorTypeSchema,
				"%s: field %s is listed twice", typeName, f.def.name).
				WithDetail("field", f.def.name)
		}
		if err := s.add(f, typeName); err != nil {
			return nil, err
		}
	}
	for _, f := range own {
		f.def.declaredBy = s
	}

	for _, name := range s.order {
		if s.fields[name].def.kind == KindConstant {
			s.constants = append(s.constants, name)
		} else {
			s.derivables = append(s.derivables, name)
		}
	}
	return s, nil
}

// MustDefine is Define for package level schema variables. It panics on a
// schema error so a bad definition never yields a usable type.
func MustDefine(typeName string, fields []*Field, parents ...*Schema) *Schema {
	s, err := Define(typeName, fields, parents...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) add(tmpl *Field, from string) error {
	name := tmpl.def.name
	if existing, ok := s.fields[name]; ok {
		if existing.def == tmpl.def {
			return nil
		}
		return perrors.Newf(perrors.ErrorTypeSchema,
			"%s: field %s from %s collides with another field of the same name",
			s.name, name, from).
			WithDetail("field", name)
	}
	s.fields[name] = tmpl.clone(nil)
	s.order = append(s.order, name)
	return nil
}

func validateFieldName(typeName, name string) error {
	if !fieldNamePattern.MatchString(name) {
		return perrors.Newf(perrors.ErrorTypeSchema,
			"%s: '%s' is not a valid field name, only [A-Z0-9_] is allowed!", typeName, name).
			WithDetail("field", name)
	}
	return nil
}

// Name returns the configuration type name.
func (s *Schema) Name() string { return s.name }

// Parents returns the schemas passed to Define.
func (s *Schema) Parents() []*Schema { return append([]*Schema(nil), s.parents...) }

// Names returns every field name in declaration order.
func (s *Schema) Names() []string { return append([]string(nil), s.order...) }

// ConstantNames returns the Constant field names in declaration order.
func (s *Schema) ConstantNames() []string { return append([]string(nil), s.constants...) }

// DerivableNames returns the Derivable field names in declaration order.
func (s *Schema) DerivableNames() []string { return append([]string(nil), s.derivables...) }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.order) }

// Has reports whether the schema declares name.
func (s *Schema) Has(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// Field returns the unbound template of name. Reading or writing it returns
// an unbound-field error.
func (s *Schema) Field(name string) (*Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Fields returns the unbound templates in declaration order.
func (s *Schema) Fields() []*Field {
	out := make([]*Field, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.fields[name])
	}
	return out
}

// BindGetter binds the Getter of a Derivable field. The last binding wins.
// Instances created before the call keep the Getter they were built with, and
// schemas already derived from s are not affected.
func (s *Schema) BindGetter(name string, g Getter) error {
	f, ok := s.fields[name]
	if !ok {
		return perrors.Newf(perrors.ErrorTypeSchema, "%s has no field %s", s.name, name).
			WithDetail("field", name)
	}
	if f.def.kind != KindDerivable {
		return perrors.Newf(perrors.ErrorTypeSchema,
			"%s.%s is a %s field, only Derivable fields take a getter", s.name, name, f.def.kind).
			WithDetail("field", name)
	}
	if g == nil {
		return perrors.Newf(perrors.ErrorTypeSchema, "%s.%s: getter is nil", s.name, name).
			WithDetail("field", name)
	}
	f.getter = g
	return nil
}

// MustBindGetter is BindGetter that panics on error.
func (s *Schema) MustBindGetter(name string, g Getter) *Schema {
	if err := s.BindGetter(name, g); err != nil {
		panic(err)
	}
	return s
}

// BindValidator binds the Validator of any field. The last binding wins.
func (s *Schema) BindValidator(name string, v Validator) error {
	f, ok := s.fields[name]
	if !ok {
		return perrors.Newf(perrors.ErrorTypeSchema, "%s has no field %s", s.name, name).
			WithDetail("field", name)
	}
	if v == nil {
		return perrors.Newf(perrors.ErrorTypeSchema, "%s.%s: validator is nil", s.name, name).
			WithDetail("field", name)
	}
	f.validator = v
	return nil
}

// MustBindValidator is BindValidator that panics on error.
func (s *Schema) MustBindValidator(name string, v Validator) *Schema {
	if err := s.BindValidator(name, v); err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) String() string {
	return fmt.Sprintf("Schema(%s, %d fields)", s.name, len(s.order))
}
