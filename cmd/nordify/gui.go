package main

import (
	"github.com/spf13/cobra"

	"nordify/internal/errors"
	"nordify/internal/gui"
)

// newGUICmd creates the GUI command for the CLI
func newGUICmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Launch the graphical user interface",
		Long:  `Launch the desktop window version of nordify. Same commands, same keys.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.Available() {
				return errors.New("this build has no GUI (built with -tags nogui)")
			}
			o.configureLogging(true, cmd.ErrOrStderr())

			s, err := o.openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			return gui.Run(s, o.cfg)
		},
	}
}
