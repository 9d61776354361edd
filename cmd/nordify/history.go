package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"nordify/internal/config"
	"nordify/internal/history"
)

// newHistoryCmd shows and maintains the visited-directory history.
func newHistoryCmd(o *options) *cobra.Command {
	var (
		limit  int
		recent bool
		prune  bool
		forget string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently visited directories",
		Long: `Show the directories the interfaces visited, most frecent first.
Frecency weighs how often a directory was visited against how long ago.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.configureLogging(false, cmd.ErrOrStderr())
			if !o.cfg.History.Enabled {
				cmd.PrintErrln("Note: history.enabled is false, nothing new is being recorded.")
			}

			store, err := history.Open(config.ExpandHome(o.cfg.History.Path))
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if forget != "" {
				if err := store.Forget(forget); err != nil {
					return err
				}
				fmt.Fprintf(out, "Forgot %s\n", forget)
			}
			if prune {
				n, err := store.Prune()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Pruned %d missing %s\n", n, plural(n, "directory", "directories"))
			}

			if limit <= 0 {
				limit = o.cfg.History.Limit
			}
			var visits []history.Visit
			if recent {
				visits, err = store.Recent(limit)
			} else {
				visits, err = store.Frecent(limit)
			}
			if err != nil {
				return err
			}

			if len(visits) == 0 {
				fmt.Fprintln(out, "No directories visited yet.")
				return nil
			}
			for _, v := range visits {
				fmt.Fprintf(out, "%5d  %-16s %s\n", v.Frequency, humanize.Time(v.LastVisited), v.Path)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "entries to show (default history.limit)")
	cmd.Flags().BoolVar(&recent, "recent", false, "order by last visit instead of frecency")
	cmd.Flags().BoolVar(&prune, "prune", false, "remove directories that no longer exist")
	cmd.Flags().StringVar(&forget, "forget", "", "remove one directory")

	return cmd
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
