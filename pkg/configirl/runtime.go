package configirl

import (
	"os"
	"strings"
)

// Runtime detects the host a config is evaluated on from its environment.
type Runtime struct {
	env map[string]string
}

// NewRuntime snapshots environ. A nil environ reads os.Environ.
func NewRuntime(environ func() []string) Runtime {
	if environ == nil {
		environ = os.Environ
	}
	env := make(map[string]string)
	for _, kv := range environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return Runtime{env: env}
}

func (r Runtime) has(key string) bool {
	_, ok := r.env[key]
	return ok
}

func (r Runtime) nonEmpty(key string) bool {
	return r.env[key] != ""
}

// IsAWSLambda reports the AWS Lambda runtime.
func (r Runtime) IsAWSLambda() bool { return r.has("AWS_LAMBDA_FUNCTION_NAME") }

// IsAWSCodeBuild reports the AWS CodeBuild runtime.
func (r Runtime) IsAWSCodeBuild() bool { return r.has("CODEBUILD_BUILD_ID") }

// IsEC2 reports an EC2 host whose login user is ec2-user.
func (r Runtime) IsEC2() bool { return strings.HasSuffix(r.env["HOME"], "ec2-user") }

// IsCI reports any CI that sets CI.
func (r Runtime) IsCI() bool { return r.nonEmpty("CI") }

// IsCircleCI reports CircleCI.
func (r Runtime) IsCircleCI() bool { return r.nonEmpty("CIRCLECI") }

// IsTravisCI reports Travis CI.
func (r Runtime) IsTravisCI() bool { return r.nonEmpty("TRAVIS") }

// IsGitlabCI reports GitLab CI.
func (r Runtime) IsGitlabCI() bool { return r.nonEmpty("GITLAB_CI") }
