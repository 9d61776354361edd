package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"nordify/internal/browse"
	"nordify/internal/errors"
	"nordify/internal/log"
	"nordify/internal/mapper"
	"nordify/internal/pipeline"
	"nordify/pkg/types"
)

// newRenderCmd transforms one image without the interactive front ends.
func newRenderCmd(o *options) *cobra.Command {
	var (
		modeName     string
		k            uint8
		maxDimension int
	)

	cmd := &cobra.Command{
		Use:   "render INPUT OUTPUT",
		Short: "Recolor a single image",
		Long: `Recolor INPUT and write the result to OUTPUT. The output format follows
OUTPUT's extension. Mode and k default to the configured values.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.configureLogging(false, cmd.ErrOrStderr())
			input, output := args[0], args[1]

			mode := o.cfg.Mode()
			if cmd.Flags().Changed("mode") {
				var err error
				if mode, err = types.ParseMode(modeName); err != nil {
					return err
				}
			}
			neighbors := o.cfg.K()
			if cmd.Flags().Changed("k") {
				if k == 0 {
					return errors.New("--k must be between 1 and 255")
				}
				neighbors = k
			}
			if !browse.IsImageName(output) {
				return errors.Newf("output %s has no recognized image extension", output)
			}

			m, err := pipeline.Strategy(mode, neighbors)
			if err != nil {
				return err
			}

			start := time.Now()
			logger := log.LogWithFields(log.F("mode", mode.String()), log.F("input", input))
			if err := mapper.Transform(input, output, mapper.Options{
				Mapper:       m,
				MaxDimension: maxDimension,
				Label:        mode.String(),
			}); err != nil {
				logger.WithError(err).Error("render failed")
				return err
			}
			elapsed := time.Since(start).Round(time.Millisecond)
			logger.With(log.F("output", output), log.F("elapsed", elapsed.String())).Debug("rendered")

			label := mode.String()
			if mode == types.Knn {
				label = fmt.Sprintf("knn k=%d", neighbors)
			}
			size := "?"
			if info, err := os.Stat(output); err == nil {
				size = humanize.Bytes(uint64(info.Size()))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s, %s, %s)\n", input, output, label, size, elapsed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modeName, "mode", "m", "", "default, creative or knn (default from config)")
	cmd.Flags().Uint8VarP(&k, "k", "k", 0, "neighbor count for knn, 1-255 (default from config)")
	cmd.Flags().IntVar(&maxDimension, "max-dimension", 0, "bound the longest side of the output, 0 keeps the source size")

	return cmd
}
