package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"nordify/internal/config"
	"nordify/internal/errors"
)

// newConfigCmd groups the config file helpers.
func newConfigCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(o))
	cmd.AddCommand(newConfigShowCmd(o))
	return cmd
}

func newConfigInitCmd(o *options) *cobra.Command {
	var (
		path  string
		theme string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Long: `Write the default settings to --path (default ~/.config/nordify/config.yaml,
or the --config file). A .toml path writes TOML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = o.cfgFile
			}
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return errors.Wrap(err, "cannot locate home directory")
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.Newf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.New()
			if theme != "" {
				if !validTheme(theme) {
					return errors.Newf("unknown theme %q (available: %s)", theme, strings.Join(config.ListThemes(), ", "))
				}
				cfg.ApplyTheme(theme)
			}
			if err := config.SaveConfig(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "where to write the file")
	cmd.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(config.ListThemes(), ", ")+")")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func newConfigShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(o.cfg)
			if err != nil {
				return errors.Wrap(err, "failed to marshal config")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func validTheme(name string) bool {
	for _, t := range config.ListThemes() {
		if t == name {
			return true
		}
	}
	return false
}
