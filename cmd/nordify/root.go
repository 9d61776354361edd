package main

import (
	"io"

	"github.com/spf13/cobra"

	"nordify/internal/config"
	"nordify/internal/errors"
	"nordify/internal/log"
	"nordify/internal/session"
)

// options is shared by every subcommand. The config is loaded once in
// PersistentPreRunE.
type options struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
}

// NewRootCmd creates the root command. Without a subcommand it starts the
// terminal interface.
func NewRootCmd() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:   "nordify",
		Short: "Browse images and recolor them with the Nord palette",
		Long: `
  ┌┐┌┌─┐┬─┐┌┬┐┬┌─┐┬ ┬
  ││││ │├┬┘ ││││├┤ └┬┘
  ┘└┘└─┘┴└──┴┘┴└   ┴

Nordify lets you browse a directory, pick an image, preview it recolored
with one of three palette strategies and save the result next to it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runTUI(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&o.cfgFile, "config", "", "config file (default is $HOME/.config/nordify/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(newTUICmd(o))
	rootCmd.AddCommand(newGUICmd(o))
	rootCmd.AddCommand(newRenderCmd(o))
	rootCmd.AddCommand(newLsCmd(o))
	rootCmd.AddCommand(newHistoryCmd(o))
	rootCmd.AddCommand(newConfigCmd(o))

	return rootCmd
}

// load reads the config. A broken file named with --config is an error;
// a broken default file falls back to the defaults with a warning.
func (o *options) load(cmd *cobra.Command) error {
	var err error
	if o.cfgFile != "" {
		o.cfg, err = config.LoadConfigFile(o.cfgFile)
		if err != nil {
			return err
		}
	} else if o.cfg, err = config.LoadConfig(); err != nil {
		cmd.PrintErrf("Warning: %v\nUsing default settings. Run 'nordify config init' to write a config file.\n", err)
		o.cfg = config.New()
	}

	if o.logLevel != "" {
		o.cfg.Logging.Level = o.logLevel
	}
	return nil
}

// configureLogging sets up the package logger. Interactive front ends own
// the terminal, so they log to the configured file only.
func (o *options) configureLogging(interactive bool, errOut io.Writer) {
	opts := []log.Option{log.WithLevel(o.cfg.Logging.Level)}
	if o.cfg.Logging.JSON {
		opts = append(opts, log.WithJSON())
	}

	switch {
	case !interactive:
		opts = append(opts, log.WithOutput(errOut))
	case o.cfg.Logging.File != "":
		opts = append(opts, log.WithFile(config.ExpandHome(o.cfg.Logging.File)))
	default:
		opts = append(opts, log.WithOutput(io.Discard))
	}

	log.Configure(opts...)
}

func (o *options) openSession() (*session.Session, error) {
	s, err := session.Open(o.cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to start session")
	}
	return s, nil
}
