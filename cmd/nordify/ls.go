package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"nordify/internal/browse"
	"nordify/internal/config"
	"nordify/pkg/types"
)

type lsEntry struct {
	Ordinal int       `json:"ordinal"`
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Kind    string    `json:"kind"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// newLsCmd prints a directory the way the browsers list it.
func newLsCmd(o *options) *cobra.Command {
	var (
		filter string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "ls [DIR]",
		Short: "List a directory as the browser shows it",
		Long: `List DIR with directories first, names in byte order and hidden entries
left out. Ordinals are the positions the interfaces use. DIR defaults to
browse.start_dir, then the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.configureLogging(false, cmd.ErrOrStderr())

			dir := config.ExpandHome(o.cfg.Browse.StartDir)
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				var err error
				if dir, err = os.Getwd(); err != nil {
					return fmt.Errorf("error getting current directory: %w", err)
				}
			}

			entries, err := browse.Build(dir)
			if err != nil {
				return err
			}
			if filter != "" {
				entries = browse.Filter(entries, filter)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				rows := make([]lsEntry, len(entries))
				for i, e := range entries {
					rows[i] = lsEntry{
						Ordinal: e.Ordinal,
						Name:    e.Name,
						Path:    e.FullPath,
						Kind:    e.Kind.String(),
						Size:    e.Size,
						ModTime: e.ModTime,
					}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			for _, e := range entries {
				name, details := e.Name, ""
				if e.Kind == types.Directory {
					name += "/"
				} else {
					details = fmt.Sprintf("%8s  %s", humanize.Bytes(uint64(e.Size)), humanize.Time(e.ModTime))
				}
				fmt.Fprintf(out, "%4d  %-9s %-40s %s\n", e.Ordinal, e.Kind, name, details)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "fuzzy filter on names")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
