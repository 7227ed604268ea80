package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/pygitrepo/internal/scaffold"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		opts      scaffold.Options
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new python repository from the built in template",
		Example: `  pygitrepo init --package-name my_package --github-username octocat \
    --py-ver 3.8.11 --py-ver 3.9.6 --doc-service rtd --rtd-name my-package`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := scaffold.Init(cmd.Context(), opts, version, a.fs, outputDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%d files)\n", res.Dir, res.Files)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.PackageName, "package-name", "", "Python package name")
	f.StringVar(&opts.RepoName, "repo-name", "", "Repository name (default <package-name>-project)")
	f.StringVar(&opts.GithubUsername, "github-username", "", "GitHub account owning the repository")
	f.StringSliceVar(&opts.SupportedPyVer, "py-ver", nil, "Supported python versions, the first is the dev version")
	f.StringVar(&opts.AuthorName, "author-name", "", "Author name")
	f.StringVar(&opts.AuthorEmail, "author-email", "", "Author email")
	f.StringVar(&opts.MaintainerName, "maintainer-name", "", "Maintainer name (default author name)")
	f.StringVar(&opts.MaintainerEmail, "maintainer-email", "", "Maintainer email (default author email)")
	f.StringVar(&opts.RTDName, "rtd-name", "", "Read the Docs project name")
	f.StringVar(&opts.DocHostBucketName, "doc-bucket", "", "S3 bucket hosting the documents")
	f.StringVar(&opts.DocService, "doc-service", "", "Document host: rtd, s3 or none")
	f.StringVarP(&outputDir, "output-dir", "o", ".", "Parent directory of the new repository")
	_ = cmd.MarkFlagRequired("package-name")
	_ = cmd.MarkFlagRequired("github-username")

	return cmd
}
