package scaffold

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/pygitrepo/pkg/errors"
	"github.com/ajitpratap0/pygitrepo/pkg/repoconfig"
)

const (
	DefaultAuthorName  = "unknown author"
	DefaultAuthorEmail = "unknown@example.com"
	DefaultLicense     = "MIT"
	DefaultPyVer       = "3.8.11"

	unknownRTDName  = "Unknown_ReadTheDocs_Project_Name"
	unknownS3Bucket = "Unknwon-S3-Bucket-Name"
)

// Options describes the repository to generate.
type Options struct {
	PackageName       string
	RepoName          string
	GithubUsername    string
	SupportedPyVer    []string
	AuthorName        string
	AuthorEmail       string
	MaintainerName    string
	MaintainerEmail   string
	License           string
	RTDName           string
	DocHostBucketName string
	DocService        string
}

// Normalize validates o and fills the defaults.
func (o *Options) Normalize() error {
	if err := repoconfig.ValidatePackageName(o.PackageName); err != nil {
		return err
	}
	if err := repoconfig.ValidateGithubUsername(o.GithubUsername); err != nil {
		return err
	}
	service, err := repoconfig.ParseDocService(o.DocService)
	if err != nil {
		return err
	}
	o.DocService = string(service)

	if o.RepoName == "" {
		o.RepoName = o.PackageName + "-project"
	}
	if len(o.SupportedPyVer) == 0 {
		o.SupportedPyVer = []string{DefaultPyVer}
	}
	for _, v := range o.SupportedPyVer {
		if _, err := ToxVersion(v); err != nil {
			return err
		}
	}
	if o.AuthorName == "" {
		o.AuthorName = DefaultAuthorName
	}
	if o.AuthorEmail == "" {
		o.AuthorEmail = DefaultAuthorEmail
	}
	if o.MaintainerName == "" {
		o.MaintainerName = o.AuthorName
	}
	if o.MaintainerEmail == "" {
		o.MaintainerEmail = o.AuthorEmail
	}
	// Only the MIT licence file ships with the template.
	o.License = DefaultLicense
	if o.RTDName == "" {
		o.RTDName = unknownRTDName
	}
	if o.DocHostBucketName == "" {
		o.DocHostBucketName = unknownS3Bucket
	}
	return nil
}

// RepoURL returns the GitHub page of the repository.
func (o Options) RepoURL() string {
	return "https://github.com/" + o.GithubUsername + "/" + o.RepoName
}

// DocDomain returns the documentation site of the chosen doc service.
func (o Options) DocDomain() string {
	switch repoconfig.DocService(o.DocService) {
	case repoconfig.DocServiceReadTheDocs:
		return "https://" + o.RTDName + ".readthedocs.io"
	case repoconfig.DocServiceS3:
		return "http://" + o.DocHostBucketName + ".s3.amazonaws.com/" + o.PackageName
	default:
		return ""
	}
}

// Vars returns the template variables of a normalized o.
func (o Options) Vars(version string, now time.Time) map[string]string {
	major, minor, micro := splitPyVer(o.SupportedPyVer[0])
	return map[string]string{
		"pygitrepo_version":           version,
		"package_name":                o.PackageName,
		"repo_name":                   o.RepoName,
		"github_username":             o.GithubUsername,
		"repo_url":                    o.RepoURL(),
		"supported_py_ver":            strings.Join(o.SupportedPyVer, ", "),
		"supported_py_ver_for_tox":    strings.Join(convertAll(o.SupportedPyVer, ToxVersion), ","),
		"supported_py_ver_for_travis": strings.Join(convertAll(o.SupportedPyVer, TravisVersion), ", "),
		"py_ver_major":                major,
		"py_ver_minor":                minor,
		"py_ver_micro":                micro,
		"year":                        strconv.Itoa(now.Year()),
		"today":                       now.Format("2006-01-02"),
		"license":                     o.License,
		"author_name":                 o.AuthorName,
		"author_email":                o.AuthorEmail,
		"maintainer_name":             o.MaintainerName,
		"maintainer_email":            o.MaintainerEmail,
		"doc_service":                 o.DocService,
		"rtd_name":                    o.RTDName,
		"doc_host_bucket_name":        o.DocHostBucketName,
		"doc_domain":                  o.DocDomain(),
	}
}

func splitPyVer(v string) (major, minor, micro string) {
	parts := strings.SplitN(pyVerPattern.FindString(v), ".", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return parts[0], parts[1], parts[2]
}

func convertAll(versions []string, convert func(string) (string, error)) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range versions {
		c, err := convert(v)
		if err != nil || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

var (
	pyVerPattern   = regexp.MustCompile(`\d+(\.\d+){0,2}`)
	majorMinorExpr = regexp.MustCompile(`(\d+)\.(\d+)`)
)

type special struct{ marker, version string }

var (
	toxSpecial = []special{
		{"jython", "jython"},
		{"pypy3", "pypy3"},
		{"pypy", "pypy"},
		{"anaconda3", "py3"},
		{"anaconda2", "py2"},
		{"anaconda", "py"},
	}
	travisSpecial = []special{
		{"pypy3", "pypy3"},
		{"pypy", "pypy"},
		{"anaconda3", "3.4"},
		{"anaconda2", "2.7"},
		{"anaconda", "2.7"},
	}
)

func majorMinor(pyenv string) (int, int, error) {
	m := majorMinorExpr.FindStringSubmatch(pyenv)
	if m == nil {
		return 0, 0, errors.Newf(errors.ErrorTypeValidation, "'%s' is not a pyenv python version", pyenv).
			WithDetail("version", pyenv)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	return major, minor, nil
}

// ToxVersion converts a pyenv version such as 3.6.2 to a tox environment
// such as py36.
func ToxVersion(pyenv string) (string, error) {
	for _, s := range toxSpecial {
		if strings.Contains(pyenv, s.marker) {
			return s.version, nil
		}
	}
	major, minor, err := majorMinor(pyenv)
	if err != nil {
		return "", err
	}
	switch {
	case major < 2 || (major == 2 && minor < 6):
		return "py2", nil
	case major == 3 && minor < 3:
		return "py3", nil
	default:
		return "py" + strconv.Itoa(major) + strconv.Itoa(minor), nil
	}
}

// TravisVersion converts a pyenv version such as 3.6.2 to a Travis CI
// version such as 3.6.
func TravisVersion(pyenv string) (string, error) {
	for _, s := range travisSpecial {
		if strings.Contains(pyenv, s.marker) {
			return s.version, nil
		}
	}
	major, minor, err := majorMinor(pyenv)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(major) + "." + strconv.Itoa(minor), nil
}
