package main

import (
	"github.com/spf13/cobra"

	"nordify/internal/tui"
)

// newTUICmd represents the TUI command
func newTUICmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal user interface",
		Long:  `Start the terminal interface: browse, select an image, preview and save.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runTUI(cmd)
		},
	}
}

func (o *options) runTUI(cmd *cobra.Command) error {
	o.configureLogging(true, cmd.ErrOrStderr())

	s, err := o.openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	return tui.Run(s, o.cfg)
}
