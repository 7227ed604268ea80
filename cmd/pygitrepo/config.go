package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/pygitrepo/pkg/configirl"
	"github.com/ajitpratap0/pygitrepo/pkg/logger"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and dump the repository configuration",
	}
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigGetCmd(a))
	cmd.AddCommand(newConfigDumpCmd(a))
	cmd.AddCommand(newReadJSONValueCmd(a))
	return cmd
}

// showOptions render like Config.String: hidden-from-dump fields included,
// hidden-from-print values redacted, unset values skipped.
var showOptions = []configirl.DumpOption{
	configirl.WithCheckDump(false),
	configirl.WithCheckPrint(true),
	configirl.WithIgnoreUnset(true),
}

func newConfigShowCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print every resolvable field, hidden values redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.loadRepoConfig()
			if err != nil {
				return err
			}
			var text string
			switch format {
			case "json":
				text, err = r.ToJSON(showOptions...)
			case "yaml":
				text, err = r.ToYAML(showOptions...)
			default:
				return fmt.Errorf("unsupported format %q: use json or yaml", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json or yaml)")
	return cmd
}

func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get FIELD",
		Short: "Print the value of one field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.loadRepoConfig()
			if err != nil {
				return err
			}
			v, err := r.Get(args[0], configirl.CheckPrint())
			if err != nil {
				return err
			}
			return printValue(cmd, v)
		},
	}
}

func newConfigDumpCmd(a *app) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "dump [TARGET]",
		Short: "Write config-final-for-<target>.json files into the config dir",
		Long: fmt.Sprintf(`Write the configuration for one target, or for all of them when TARGET is
omitted. Targets: %v`, configirl.Targets()),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.loadRepoConfig()
			if err != nil {
				return err
			}
			var paths []string
			if len(args) == 0 {
				paths, err = r.DumpAll(overwrite)
			} else {
				var target configirl.Target
				if target, err = configirl.ParseTarget(args[0]); err != nil {
					return err
				}
				var path string
				path, err = r.DumpTarget(target, overwrite)
				paths = append(paths, path)
			}
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			logger.Info("config dumped", zap.Int("files", len(paths)), zap.String("dir", r.ConfigDir()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	return cmd
}

func newReadJSONValueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read-json-value FILE PATH",
		Short: "Print the value at a dotted path ($.a.b) of a JSON file with comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := configirl.ReadJSONValue(a.fs, args[0], args[1])
			if err != nil {
				return err
			}
			return printValue(cmd, v)
		},
	}
}
