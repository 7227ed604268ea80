// Package publish uploads dumped config files to AWS S3.
package publish

import (
	"bytes"
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ajitpratap0/pygitrepo/pkg/configirl"
	"github.com/ajitpratap0/pygitrepo/pkg/errors"
	"github.com/ajitpratap0/pygitrepo/pkg/logger"
	"github.com/ajitpratap0/pygitrepo/pkg/s3uri"
)

const contentType = "application/json"

// Uploader is the part of manager.Uploader used to put objects.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Publisher uploads the per target config files of a config directory.
type Publisher struct {
	uploader Uploader
	log      *zap.Logger
}

// New loads the AWS configuration for profile and region and returns a
// Publisher backed by an S3 upload manager. Empty arguments keep the SDK
// defaults.
func New(ctx context.Context, profile, region string) (*Publisher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to load AWS configuration").
			WithDetail("profile", profile)
	}
	return NewWithUploader(manager.NewUploader(s3.NewFromConfig(cfg))), nil
}

// NewWithUploader returns a Publisher that sends objects through u.
func NewWithUploader(u Uploader) *Publisher {
	return &Publisher{uploader: u, log: logger.Get().With(zap.String("component", "publish"))}
}

// PublishDir uploads every config-final-for-*.json file in dir to
// s3://bucket/prefix/ and returns the object URIs in name order.
func (p *Publisher) PublishDir(ctx context.Context, fs afero.Fs, dir, bucket, prefix string) ([]string, error) {
	if bucket == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "an S3 bucket is required to publish")
	}
	var files []string
	for _, t := range configirl.Targets() {
		path := filepath.Join(dir, t.FileName())
		ok, err := afero.Exists(fs, path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to stat config file").
				WithDetail("path", path)
		}
		if ok {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return nil, errors.Newf(errors.ErrorTypeFile, "no dumped config file found in %s", dir).
			WithDetail("path", dir)
	}
	sort.Strings(files)

	uris := make([]string, 0, len(files))
	for _, path := range files {
		uri, err := p.publishFile(ctx, fs, path, bucket, prefix)
		if err != nil {
			return uris, err
		}
		uris = append(uris, uri)
	}
	return uris, nil
}

func (p *Publisher) publishFile(ctx context.Context, fs afero.Fs, path, bucket, prefix string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeFile, "failed to read config file").
			WithDetail("path", path)
	}
	key := s3uri.SmartJoin(false, prefix, filepath.Base(path))
	if err := s3uri.EnsureObject(key); err != nil {
		return "", err
	}

	start := time.Now()
	_, err = p.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"created": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeUpload, "failed to upload to S3").
			WithDetail("bucket", bucket).
			WithDetail("key", key)
	}

	uri := s3uri.Join(bucket, key)
	p.log.Info("uploaded config file",
		zap.String("uri", uri),
		zap.Int("bytes", len(data)),
		zap.Duration("took", time.Since(start)))
	return uri, nil
}
