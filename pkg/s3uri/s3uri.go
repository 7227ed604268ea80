// Package s3uri builds and checks AWS S3 URIs and keys.
package s3uri

import (
	"strings"

	"github.com/ajitpratap0/pygitrepo/pkg/errors"
)

const scheme = "s3://"

// Split returns the bucket and key of an s3://bucket/key URI.
func Split(uri string) (bucket, key string, err error) {
	if !strings.HasPrefix(uri, scheme) {
		return "", "", errors.Newf(errors.ErrorTypeConfig, "'%s' is not an S3 URI", uri).
			WithDetail("uri", uri)
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(uri, scheme), "/")
	if bucket == "" {
		return "", "", errors.Newf(errors.ErrorTypeConfig, "'%s' has no bucket", uri).
			WithDetail("uri", uri)
	}
	return bucket, key, nil
}

// Join returns s3://bucket/key.
func Join(bucket, key string) string {
	return scheme + bucket + "/" + key
}

// SmartJoin joins key parts so that the result has no leading slash and no
// empty segment. A directory key ends with "/".
func SmartJoin(isDir bool, parts ...string) string {
	var chunks []string
	for _, part := range parts {
		for _, chunk := range strings.Split(part, "/") {
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
		}
	}
	key := strings.Join(chunks, "/")
	if isDir && key != "" {
		key += "/"
	}
	return key
}

// ConsoleURL returns the AWS console page of a bucket prefix or object.
func ConsoleURL(bucket, prefix string) string {
	kind := "object"
	if strings.HasSuffix(prefix, "/") {
		kind = "buckets"
	}
	return "https://s3.console.aws.amazon.com/s3/" + kind + "/" + bucket +
		"?prefix=" + prefix
}

// ConsoleURLFromURI is ConsoleURL for an s3:// URI.
func ConsoleURLFromURI(uri string) (string, error) {
	bucket, key, err := Split(uri)
	if err != nil {
		return "", err
	}
	return ConsoleURL(bucket, key), nil
}

// EnsureObject fails when keyOrURI names a directory.
func EnsureObject(keyOrURI string) error {
	if strings.HasSuffix(keyOrURI, "/") {
		return errors.Newf(errors.ErrorTypeConfig, "'%s' doesn't represent s3 object!", keyOrURI)
	}
	return nil
}

// EnsureDir fails when keyOrURI does not name a directory.
func EnsureDir(keyOrURI string) error {
	if !strings.HasSuffix(keyOrURI, "/") {
		return errors.Newf(errors.ErrorTypeConfig, "'%s' doesn't represent s3 dir!", keyOrURI)
	}
	return nil
}
