// Package repoconfig is the configuration of a python repository managed by
// pygitrepo.
package repoconfig

import (
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/spf13/afero"

	"github.com/ajitpratap0/pygitrepo/pkg/configirl"
	"github.com/ajitpratap0/pygitrepo/pkg/errors"
	"github.com/ajitpratap0/pygitrepo/pkg/s3uri"
)

// Unknown is the package version reported when _version.py can't be read.
const Unknown = "unknown"

var versionPattern = regexp.MustCompile(`(?m)^__version__\s*=\s*["']([^"']+)["']`)

// RepoConfig is an instance of Schema with path and S3 helpers.
type RepoConfig struct {
	*configirl.Config
}

// New creates an empty RepoConfig.
func New(opts ...configirl.Option) (*RepoConfig, error) {
	c, err := Schema.New(nil, opts...)
	if err != nil {
		return nil, err
	}
	return &RepoConfig{Config: c}, nil
}

// Load creates a RepoConfig and reads ConfigFile from the located project
// root.
func Load(opts ...configirl.Option) (*RepoConfig, error) {
	r, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := r.ReadConfigFile(); err != nil {
		return nil, err
	}
	return r, nil
}

// ReadConfigFile updates r from ConfigFile at the project root.
func (r *RepoConfig) ReadConfigFile() error {
	root, err := r.DirProjectRoot()
	if err != nil {
		return err
	}
	_, err = r.UpdateFromJSONFile(filepath.Join(root, ConfigFile))
	return err
}

// EnsureNotNil fails when field name holds nil.
func (r *RepoConfig) EnsureNotNil(name string) error {
	v, err := r.Get(name)
	if err != nil {
		return err
	}
	if v == nil {
		return errors.Newf(errors.ErrorTypeConfig,
			"Please give '%s' a valid value other than 'None'!", name).
			WithDetail("field", name)
	}
	return nil
}

func (r *RepoConfig) requireString(name string) (string, error) {
	if err := r.EnsureNotNil(name); err != nil {
		return "", err
	}
	return r.GetString(name)
}

// PackageName returns PACKAGE_NAME.
func (r *RepoConfig) PackageName() (string, error) { return r.requireString(PackageName) }

// PackageNameSlug returns the package name with dashes instead of underscores.
func (r *RepoConfig) PackageNameSlug() (string, error) {
	name, err := r.PackageName()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(name, "_", "-"), nil
}

// DirProjectRoot returns DIR_PROJECT_ROOT.
func (r *RepoConfig) DirProjectRoot() (string, error) { return r.GetString(DirProjectRoot) }

func (r *RepoConfig) underRoot(elem ...string) (string, error) {
	root, err := r.DirProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{root}, elem...)...), nil
}

// PathReadme returns README.rst at the project root.
func (r *RepoConfig) PathReadme() (string, error) { return r.underRoot("README.rst") }

// DirPythonLib returns the package source directory.
func (r *RepoConfig) DirPythonLib() (string, error) {
	name, err := r.PackageName()
	if err != nil {
		return "", err
	}
	return r.underRoot(name)
}

// PathVersionFile returns <package>/_version.py.
func (r *RepoConfig) PathVersionFile() (string, error) {
	lib, err := r.DirPythonLib()
	if err != nil {
		return "", err
	}
	return filepath.Join(lib, "_version.py"), nil
}

// PackageVersion reads __version__ from _version.py, or Unknown.
func (r *RepoConfig) PackageVersion() string {
	path, err := r.PathVersionFile()
	if err != nil {
		return Unknown
	}
	data, err := afero.ReadFile(r.Fs(), path)
	if err != nil {
		return Unknown
	}
	m := versionPattern.FindSubmatch(data)
	if m == nil {
		return Unknown
	}
	return string(m[1])
}

// PathRequirementsFile returns requirements.txt.
func (r *RepoConfig) PathRequirementsFile() (string, error) {
	return r.underRoot("requirements.txt")
}

// PathRequirementsDevFile returns requirements-dev.txt.
func (r *RepoConfig) PathRequirementsDevFile() (string, error) {
	return r.underRoot("requirements-dev.txt")
}

// PathRequirementsDocFile returns requirements-doc.txt.
func (r *RepoConfig) PathRequirementsDocFile() (string, error) {
	return r.underRoot("requirements-doc.txt")
}

// PathRequirementsTestFile returns requirements-test.txt.
func (r *RepoConfig) PathRequirementsTestFile() (string, error) {
	return r.underRoot("requirements-test.txt")
}

func (r *RepoConfig) DirPypiBuild() (string, error) { return r.underRoot("build") }
func (r *RepoConfig) DirPypiDistribute() (string, error) { return r.underRoot("dist") }

func (r *RepoConfig) DirPypiEgg() (string, error) {
	name, err := r.PackageName()
	if err != nil {
		return "", err
	}
	return r.underRoot(name + ".egg-info")
}

func (r *RepoConfig) DirTests() (string, error) { return r.underRoot("tests") }
func (r *RepoConfig) DirIntegrationTests() (string, error) { return r.underRoot("tests_integration") }
func (r *RepoConfig) DirCoverageHTML() (string, error) { return r.underRoot("htmlcov") }
func (r *RepoConfig) DirToxCache() (string, error) { return r.underRoot(".tox") }

// DirSphinxDoc returns the sphinx documentation directory.
func (r *RepoConfig) DirSphinxDoc() (string, error) { return r.underRoot("docs") }
func (r *RepoConfig) DirSphinxDocSource() (string, error) { return r.underRoot("docs", "source") }
func (r *RepoConfig) DirSphinxDocBuildHTML() (string, error) {
	return r.underRoot("docs", "build", "html")
}

// PathSphinxDocBuildHTMLIndex returns the built documentation entry page.
func (r *RepoConfig) PathSphinxDocBuildHTMLIndex() (string, error) {
	return r.underRoot("docs", "build", "html", "index.html")
}

// URLRTDDoc returns the Read the Docs site.
func (r *RepoConfig) URLRTDDoc() (string, error) {
	project, err := r.requireString(DocHostRTDProjectName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.readthedocs.io/", project), nil
}

func (r *RepoConfig) docBucketAndPackage() (string, string, error) {
	bucket, err := r.requireString(DocHostS3Bucket)
	if err != nil {
		return "", "", err
	}
	name, err := r.PackageName()
	if err != nil {
		return "", "", err
	}
	return bucket, name, nil
}

// URLS3DocLatest returns the latest documentation page hosted on S3.
func (r *RepoConfig) URLS3DocLatest() (string, error) { return r.urlS3Doc("latest") }

// URLS3DocVersioned returns the documentation page of PackageVersion.
func (r *RepoConfig) URLS3DocVersioned() (string, error) { return r.urlS3Doc(r.PackageVersion()) }

func (r *RepoConfig) urlS3Doc(version string) (string, error) {
	bucket, name, err := r.docBucketAndPackage()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/docs/%s/%s/index.html", bucket, name, version), nil
}

// S3URIDocDirLatest returns s3://<bucket>/docs/<package>/latest/.
func (r *RepoConfig) S3URIDocDirLatest() (string, error) { return r.s3URIDocDir("latest") }

// S3URIDocDirVersioned returns s3://<bucket>/docs/<package>/<version>/.
func (r *RepoConfig) S3URIDocDirVersioned() (string, error) {
	return r.s3URIDocDir(r.PackageVersion())
}

func (r *RepoConfig) s3URIDocDir(version string) (string, error) {
	bucket, name, err := r.docBucketAndPackage()
	if err != nil {
		return "", err
	}
	return s3uri.Join(bucket, s3uri.SmartJoin(true, "docs", name, version)), nil
}

// VenvName returns <package>_venv.
func (r *RepoConfig) VenvName() (string, error) {
	name, err := r.PackageName()
	if err != nil {
		return "", err
	}
	return name + "_venv", nil
}

func (r *RepoConfig) pyVersion(parts ...string) (string, error) {
	out := ""
	for i, name := range parts {
		if err := r.EnsureNotNil(name); err != nil {
			return "", err
		}
		v, err := r.Get(name)
		if err != nil {
			return "", err
		}
		if i > 0 {
			out += "."
		}
		out += fmt.Sprint(v)
	}
	return out, nil
}

// DirAllPythonVersionedVenv returns ~/venvs/python/<major.minor.micro>.
func (r *RepoConfig) DirAllPythonVersionedVenv() (string, error) {
	home, err := r.GetString(DirHome)
	if err != nil {
		return "", err
	}
	ver, err := r.pyVersion(DevPyVerMajor, DevPyVerMinor, DevPyVerMicro)
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "venvs", "python", ver), nil
}

// DirVenv returns the virtual environment of the project.
func (r *RepoConfig) DirVenv() (string, error) {
	all, err := r.DirAllPythonVersionedVenv()
	if err != nil {
		return "", err
	}
	name, err := r.VenvName()
	if err != nil {
		return "", err
	}
	return filepath.Join(all, name), nil
}

// DirVenvBin returns the executable directory of the virtual environment.
func (r *RepoConfig) DirVenvBin() (string, error) {
	venv, err := r.DirVenv()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(venv, "Scripts"), nil
	}
	return filepath.Join(venv, "bin"), nil
}

// DirVenvSitePackages returns the site-packages of the virtual environment.
func (r *RepoConfig) DirVenvSitePackages() (string, error) {
	venv, err := r.DirVenv()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(venv, "Lib", "site-packages"), nil
	}
	ver, err := r.pyVersion(DevPyVerMajor, DevPyVerMinor)
	if err != nil {
		return "", err
	}
	return filepath.Join(venv, "lib", "python"+ver, "site-packages"), nil
}

// PathVenvBin returns an executable inside the virtual environment.
func (r *RepoConfig) PathVenvBin(name string) (string, error) {
	bin, err := r.DirVenvBin()
	if err != nil {
		return "", err
	}
	return filepath.Join(bin, name), nil
}

// AWSCLIProfileArgDocHost returns the doc host profile, empty when nil.
func (r *RepoConfig) AWSCLIProfileArgDocHost() (string, error) {
	return r.GetString(DocHostAWSProfile)
}

// AWSCLIProfileArgLambdaDeploy returns the lambda deploy profile, empty when nil.
func (r *RepoConfig) AWSCLIProfileArgLambdaDeploy() (string, error) {
	return r.GetString(AWSLambdaDeployAWSProfile)
}

// DirLambdaBuild returns build/lambda.
func (r *RepoConfig) DirLambdaBuild() (string, error) { return r.underRoot("build", "lambda") }

func (r *RepoConfig) PathLambdaBuildSource() (string, error) {
	return r.underRoot("build", "lambda", "source.zip")
}

func (r *RepoConfig) PathLambdaBuildLayer() (string, error) {
	return r.underRoot("build", "lambda", "layer.zip")
}

func (r *RepoConfig) PathLambdaBuildDeployPackage() (string, error) {
	return r.underRoot("build", "lambda", "deploy-pkg.zip")
}

// S3KeyLambdaDeployDir returns lambda/<package>/.
func (r *RepoConfig) S3KeyLambdaDeployDir() (string, error) {
	name, err := r.PackageName()
	if err != nil {
		return "", err
	}
	return s3uri.SmartJoin(true, "lambda", name), nil
}

// S3KeyLambdaDeployVersionedDir returns lambda/<package>/<version>/.
func (r *RepoConfig) S3KeyLambdaDeployVersionedDir() (string, error) {
	dir, err := r.S3KeyLambdaDeployDir()
	if err != nil {
		return "", err
	}
	return s3uri.SmartJoin(true, dir, r.PackageVersion()), nil
}

// S3URILambdaDeployVersionedDir returns s3://<bucket>/lambda/<package>/<version>/.
func (r *RepoConfig) S3URILambdaDeployVersionedDir() (string, error) {
	return r.lambdaDeployURI("")
}

// S3URILambdaDeployVersionedSourceDir returns the source artifact prefix.
func (r *RepoConfig) S3URILambdaDeployVersionedSourceDir() (string, error) {
	return r.lambdaDeployURI("source")
}

// S3URILambdaDeployVersionedLayerDir returns the layer artifact prefix.
func (r *RepoConfig) S3URILambdaDeployVersionedLayerDir() (string, error) {
	return r.lambdaDeployURI("layer")
}

// S3URILambdaDeployVersionedDeployPkgDir returns the deploy package prefix.
func (r *RepoConfig) S3URILambdaDeployVersionedDeployPkgDir() (string, error) {
	return r.lambdaDeployURI("deploy-pkg")
}

func (r *RepoConfig) lambdaDeployURI(sub string) (string, error) {
	bucket, err := r.requireString(AWSLambdaDeployS3Bucket)
	if err != nil {
		return "", err
	}
	dir, err := r.S3KeyLambdaDeployVersionedDir()
	if err != nil {
		return "", err
	}
	return s3uri.Join(bucket, s3uri.SmartJoin(true, dir, sub)), nil
}

// URLLambdaLayerConsole returns the console page of the package's layer.
func (r *RepoConfig) URLLambdaLayerConsole() (string, error) {
	name, err := r.PackageName()
	if err != nil {
		return "", err
	}
	return "https://console.aws.amazon.com/lambda/home?#/layers/" + name, nil
}

// DirLambdaApp returns the chalice application directory.
func (r *RepoConfig) DirLambdaApp() (string, error) { return r.underRoot("lambda_app") }

// PathAWSChaliceConfigJSON returns lambda_app/.chalice/config.json.
func (r *RepoConfig) PathAWSChaliceConfigJSON() (string, error) {
	return r.underRoot("lambda_app", ".chalice", "config.json")
}
