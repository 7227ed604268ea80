// Package pygitrepo scaffolds python repositories and manages their
// configuration.
//
// # Architecture
//
// The module is split into a small number of packages:
//
//   - pkg/configirl: declarative configuration types built from Constant and
//     Derivable fields, with loaders (dict, JSON with comments, env) and
//     dumps (JSON, YAML, per tool config-final-for-<target>.json files).
//   - pkg/repoconfig: the repository configuration type, project root
//     discovery and the derived paths, S3 keys and URLs of a project.
//   - pkg/s3uri: S3 URI and console URL helpers.
//   - internal/scaffold: renders the built in template into a new repository.
//   - internal/publish: uploads dumped config files to S3.
//   - pkg/errors, pkg/logger, pkg/json: structured errors, the zap logger and
//     the JSON codec shared by everything above.
//
// # Quick Start
//
// Create a repository and dump its configuration:
//
//	pygitrepo init --package-name my_package --github-username octocat
//	cd my_package-project && git init
//	pygitrepo config dump
//	pygitrepo publish --bucket my-deploy-bucket
//
// Define a configuration type in Go:
//
//	app := configirl.MustDefine("App", []*configirl.Field{
//		configirl.Constant("PROJECT_NAME"),
//		configirl.Derivable("STACK_NAME", configirl.Cache()),
//	})
//	app.MustBindGetter("STACK_NAME", func(c *configirl.Config, _ configirl.Args) (any, error) {
//		name, err := c.GetString("PROJECT_NAME")
//		return name + "-stack", err
//	})
package pygitrepo
