package repoconfig

import (
	"os"

	"github.com/ajitpratap0/pygitrepo/pkg/configirl"
	"github.com/ajitpratap0/pygitrepo/pkg/errors"
)

// Field names.
const (
	PackageName   = "PACKAGE_NAME"
	DevPyVerMajor = "DEV_PY_VER_MAJOR"
	DevPyVerMinor = "DEV_PY_VER_MINOR"
	DevPyVerMicro = "DEV_PY_VER_MICRO"

	DocHostRTDProjectName = "DOC_HOST_RTD_PROJECT_NAME"
	DocHostAWSProfile     = "DOC_HOST_AWS_PROFILE"
	DocHostS3Bucket       = "DOC_HOST_S3_BUCKET"

	AWSLambdaDeployAWSProfile             = "AWS_LAMBDA_DEPLOY_AWS_PROFILE"
	AWSLambdaDeployS3Bucket               = "AWS_LAMBDA_DEPLOY_S3_BUCKET"
	AWSLambdaBuildDockerImage             = "AWS_LAMBDA_BUILD_DOCKER_IMAGE"
	AWSLambdaBuildDockerImageWorkspaceDir = "AWS_LAMBDA_BUILD_DOCKER_IMAGE_WORKSPACE_DIR"
	AWSLambdaTestDockerImage              = "AWS_LAMBDA_TEST_DOCKER_IMAGE"

	DirCWD         = "DIR_CWD"
	DirHome        = "DIR_HOME"
	DirProjectRoot = "DIR_PROJECT_ROOT"
	IsPygitrepoDir = "IS_PYGITREPO_DIR"
)

// Attribute keys read by the directory getters. A missing attribute falls
// back to the process working directory and the HOME variable.
const (
	AttrWorkDir = "workdir"
	AttrHomeDir = "homedir"
)

func nullable(name string) *configirl.Field {
	return configirl.Constant(name, configirl.Default(nil))
}

var (
	// Base has no fields; every other schema extends it.
	Base = configirl.MustDefine("BaseConfig", nil)

	// Repo holds the package and development python version.
	Repo = configirl.MustDefine("RepoBaseConfig", []*configirl.Field{
		nullable(PackageName),
		nullable(DevPyVerMajor),
		nullable(DevPyVerMinor),
		nullable(DevPyVerMicro),
	}, Base)

	// Doc holds documentation hosting settings.
	Doc = configirl.MustDefine("DocConfig", []*configirl.Field{
		nullable(DocHostRTDProjectName),
		nullable(DocHostAWSProfile),
		nullable(DocHostS3Bucket),
	}, Base)

	// Lambda holds AWS Lambda build and deploy settings.
	Lambda = configirl.MustDefine("AWSLambdaConfig", []*configirl.Field{
		nullable(AWSLambdaDeployAWSProfile),
		nullable(AWSLambdaDeployS3Bucket),
		nullable(AWSLambdaBuildDockerImage),
		nullable(AWSLambdaBuildDockerImageWorkspaceDir),
		nullable(AWSLambdaTestDockerImage),
	}, Base)

	// Schema is the full repository configuration type.
	Schema = configirl.MustDefine("RepoConfig", []*configirl.Field{
		configirl.Derivable(DirCWD, configirl.Cache()),
		configirl.Derivable(DirHome, configirl.Cache()),
		configirl.Derivable(DirProjectRoot, configirl.Cache()),
		configirl.Derivable(IsPygitrepoDir, configirl.Cache(), configirl.HideFromDump()),
	}, Repo, Doc, Lambda)
)

func init() {
	Repo.MustBindValidator(PackageName, validatePackageNameField)
	Schema.MustBindValidator(PackageName, validatePackageNameField)

	Schema.
		MustBindGetter(DirCWD, getDirCWD).
		MustBindGetter(DirHome, getDirHome).
		MustBindGetter(DirProjectRoot, getDirProjectRoot).
		MustBindGetter(IsPygitrepoDir, getIsPygitrepoDir)
}

func validatePackageNameField(_ *configirl.Config, v any) error {
	switch name := v.(type) {
	case nil:
		return nil
	case string:
		return ValidatePackageName(name)
	default:
		return errors.Newf(errors.ErrorTypeValidation, "`package_name` has to be a string, got %T", v)
	}
}

func attrString(c *configirl.Config, key string) (string, bool) {
	v, ok := c.Attr(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func getDirCWD(c *configirl.Config, _ configirl.Args) (any, error) {
	if dir, ok := attrString(c, AttrWorkDir); ok {
		return dir, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read working directory")
	}
	return dir, nil
}

func getDirHome(c *configirl.Config, _ configirl.Args) (any, error) {
	if dir, ok := attrString(c, AttrHomeDir); ok {
		return dir, nil
	}
	if dir, ok := c.LookupEnv("HOME"); ok && dir != "" {
		return dir, nil
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read home directory")
	}
	return dir, nil
}

func getDirProjectRoot(c *configirl.Config, _ configirl.Args) (any, error) {
	cwd, err := c.GetString(DirCWD)
	if err != nil {
		return nil, err
	}
	return Locate(c.Fs(), cwd)
}

func getIsPygitrepoDir(c *configirl.Config, _ configirl.Args) (any, error) {
	cwd, err := c.GetString(DirCWD)
	if err != nil {
		return nil, err
	}
	return IsRootDir(c.Fs(), cwd)
}
