// Package configirl implements declarative configuration types built from
// named fields.
//
// # Fields
//
// A field is either a Constant, which holds a directly settable value and an
// optional default, or a Derivable, which is computed from the owning Config
// by a bound Getter and can never be set:
//
//	var (
//		name     = configirl.Constant("NAME")
//		greeting = configirl.Derivable("GREETING", configirl.Cache())
//	)
//
// Field names are restricted to [A-Z0-9_].
//
// # Schemas
//
// Define collects fields into a Schema. A schema may extend other schemas;
// inherited fields come first and declaration order is kept:
//
//	var Greeter = configirl.MustDefine("Greeter", []*configirl.Field{name, greeting}).
//		MustBindGetter("GREETING", func(c *configirl.Config, _ configirl.Args) (any, error) {
//			n, err := c.GetString("NAME")
//			if err != nil {
//				return nil, err
//			}
//			return "Hello, " + n, nil
//		})
//
// # Instances
//
// Schema.New creates a Config with private copies of every field. Values can
// be loaded from maps, comment tolerant JSON, files and environment variables,
// and dumped back as ordered dicts, JSON, YAML or per target files:
//
//	cfg := Greeter.MustNew(map[string]any{"NAME": "World"})
//	v, _ := cfg.Get("GREETING") // "Hello, World"
//
// A Config is not safe for concurrent mutation. Separate instances of the
// same schema may be used from different goroutines.
package configirl
