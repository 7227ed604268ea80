package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/pygitrepo/pkg/logger"
	"github.com/ajitpratap0/pygitrepo/pkg/repoconfig"
)

func newPublishCmd(a *app) *cobra.Command {
	var bucket, prefix, profile, region string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the dumped config files to S3",
		Long: `Upload every config-final-for-<target>.json file of the config dir to
s3://<bucket>/<prefix>/. The bucket defaults to AWS_LAMBDA_DEPLOY_S3_BUCKET and
the profile to AWS_LAMBDA_DEPLOY_AWS_PROFILE; the prefix defaults to
lambda/<package name>/config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.loadRepoConfig()
			if err != nil {
				return err
			}
			if bucket == "" {
				if bucket, err = r.GetString(repoconfig.AWSLambdaDeployS3Bucket); err != nil {
					return err
				}
			}
			if profile == "" {
				if profile, err = r.GetString(repoconfig.AWSLambdaDeployAWSProfile); err != nil {
					return err
				}
			}
			if prefix == "" {
				name, err := r.PackageName()
				if err != nil {
					return err
				}
				prefix = "lambda/" + name + "/config"
			}

			p, err := a.newPublisher(cmd.Context(), profile, region)
			if err != nil {
				return err
			}
			uris, err := p.PublishDir(cmd.Context(), a.fs, r.ConfigDir(), bucket, prefix)
			for _, uri := range uris {
				fmt.Fprintln(cmd.OutOrStdout(), uri)
			}
			if err != nil {
				return err
			}
			logger.Info("config published", zap.String("bucket", bucket), zap.Int("files", len(uris)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&bucket, "bucket", "", "Destination S3 bucket")
	f.StringVar(&prefix, "prefix", "", "Destination key prefix")
	f.StringVar(&profile, "profile", "", "AWS named profile")
	f.StringVar(&region, "region", "", "AWS region")
	return cmd
}
