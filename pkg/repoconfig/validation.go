package repoconfig

import (
	"strings"

	"github.com/ajitpratap0/pygitrepo/pkg/errors"
)

// DocService names where a project hosts its documentation.
type DocService string

const (
	DocServiceNone        DocService = ""
	DocServiceReadTheDocs DocService = "rtd"
	DocServiceS3          DocService = "s3"
)

func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }

// ValidatePackageName accepts a python package name made of letters, digits
// and underscores that does not start with a digit.
func ValidatePackageName(name string) error {
	if name == "" {
		return errors.New(errors.ErrorTypeValidation, "`package_name` can't be empty string!")
	}
	for _, r := range name {
		if !isLetter(r) && !isDigit(r) && r != '_' {
			return errors.Newf(errors.ErrorTypeValidation,
				"`package_name` can only contain letters, digits and '_', got %q", name).
				WithDetail("package_name", name)
		}
	}
	if isDigit(rune(name[0])) {
		return errors.New(errors.ErrorTypeValidation, "`package_name` can't start with digits!").
			WithDetail("package_name", name)
	}
	return nil
}

// ValidateGithubUsername accepts letters, digits and inner hyphens.
func ValidateGithubUsername(name string) error {
	if name == "" {
		return errors.New(errors.ErrorTypeValidation, "`github_username` can't be empty string!")
	}
	for _, r := range name {
		if !isLetter(r) && !isDigit(r) && r != '-' {
			return errors.Newf(errors.ErrorTypeValidation,
				"`github_username` can only contain letters, digits and '-', got %q", name).
				WithDetail("github_username", name)
		}
	}
	if strings.HasPrefix(name, "-") {
		return errors.New(errors.ErrorTypeValidation, "`github_username` can't start with hyphen!")
	}
	if strings.HasSuffix(name, "-") {
		return errors.New(errors.ErrorTypeValidation, "`github_username` can't end with hyphen!")
	}
	return nil
}

// ParseDocService resolves a documentation host. "none", "null" and blank
// mean no hosting.
func ParseDocService(s string) (DocService, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "null":
		return DocServiceNone, nil
	}
	switch DocService(s) {
	case DocServiceReadTheDocs, DocServiceS3:
		return DocService(s), nil
	}
	return DocServiceNone, errors.Newf(errors.ErrorTypeValidation,
		"`doc_service` has to be one of %s, %s", DocServiceReadTheDocs, DocServiceS3).
		WithDetail("doc_service", s)
}
