package configirl_test

import (
	"fmt"

	"github.com/ajitpratap0/pygitrepo/pkg/configirl"
)

// Example defines a configuration type with a cached derived greeting.
func Example() {
	greeter := configirl.MustDefine("Greeter", []*configirl.Field{
		configirl.Constant("NAME"),
		configirl.Derivable("GREETING", configirl.Cache()),
	})
	greeter.MustBindGetter("GREETING", func(c *configirl.Config, _ configirl.Args) (any, error) {
		name, err := c.GetString("NAME")
		if err != nil {
			return nil, err
		}
		return "Hello, " + name, nil
	})

	cfg := greeter.MustNew(nil)
	_ = cfg.Set("NAME", "World")
	v, _ := cfg.Get("GREETING")
	fmt.Println(v)

	// The first successful computation is kept for the life of cfg.
	_ = cfg.Set("NAME", "Mars")
	v, _ = cfg.Get("GREETING")
	fmt.Println(v)

	// Output:
	// Hello, World
	// Hello, World
}

// ExampleConfig_ToJSON dumps fields in declaration order.
func ExampleConfig_ToJSON() {
	app := configirl.MustDefine("App", []*configirl.Field{
		configirl.Constant("PROJECT_NAME", configirl.Default("demo")),
		configirl.Constant("AWS_PROFILE", configirl.Default("dev"), configirl.HideFromDump()),
		configirl.Constant("STAGE", configirl.Default("prod")),
	})

	text, err := app.MustNew(nil).ToJSON()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(text)

	// Output:
	// {
	//     "PROJECT_NAME": "demo",
	//     "STAGE": "prod"
	// }
}

// ExampleDefine shows that a field name outside [A-Z0-9_] is rejected.
func ExampleDefine() {
	_, err := configirl.Define("Bad", []*configirl.Field{configirl.Constant("lower_case")})
	fmt.Println(configirl.IsSchemaError(err))

	// Output:
	// true
}
