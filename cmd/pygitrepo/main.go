package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/pygitrepo/internal/publish"
	"github.com/ajitpratap0/pygitrepo/pkg/configirl"
	"github.com/ajitpratap0/pygitrepo/pkg/json"
	"github.com/ajitpratap0/pygitrepo/pkg/logger"
	"github.com/ajitpratap0/pygitrepo/pkg/repoconfig"
)

var version = "0.1.0"

const envPrefix = "PYGITREPO"

// app holds what the commands share. Tests swap fs, opts and newPublisher.
type app struct {
	fs           afero.Fs
	settings     *viper.Viper
	opts         []configirl.Option
	newPublisher func(ctx context.Context, profile, region string) (*publish.Publisher, error)
}

func newApp() *app {
	return &app{
		fs:           afero.NewOsFs(),
		settings:     viper.New(),
		newPublisher: publish.New,
	}
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "pygitrepo",
		Short: "pygitrepo - python repository scaffolding and configuration",
		Long: `pygitrepo creates python repositories from a template and manages their
configuration: derived paths, per tool config dumps and S3 publishing.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{
				Level:    a.settings.GetString("log-level"),
				Encoding: a.settings.GetString("log-encoding"),
			})
		},
	}

	flags := root.PersistentFlags()
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-encoding", "console", "Log encoding (console or json)")
	flags.String("config-dir", "", "Directory for config-raw.json and dumped files (default <project root>/config)")
	_ = a.settings.BindPFlags(flags)
	a.settings.SetEnvPrefix(envPrefix)
	a.settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.settings.AutomaticEnv()

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pygitrepo v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newPublishCmd(a))
	return root
}

// loadRepoConfig reads the project settings and points the config dir at
// the config-dir setting or <project root>/config.
func (a *app) loadRepoConfig() (*repoconfig.RepoConfig, error) {
	opts := append([]configirl.Option{configirl.WithFs(a.fs)}, a.opts...)
	r, err := repoconfig.Load(opts...)
	if err != nil {
		return nil, err
	}
	dir := a.settings.GetString("config-dir")
	if dir == "" {
		root, err := r.DirProjectRoot()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(root, "config")
	}
	r.SetConfigDir(dir)
	return r, nil
}

// printValue writes strings as is and anything else as indented JSON.
func printValue(cmd *cobra.Command, v any) error {
	if s, ok := v.(string); ok {
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	}
	data, err := json.MarshalIndent(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
