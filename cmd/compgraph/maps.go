package main

import (
	"github.com/spf13/cobra"

	"github.com/nightsea987/compgraph"
	"github.com/nightsea987/compgraph/catalog"
)

func newMapsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maps <times.jsonl> <lengths.jsonl>",
		Short: "Compute average road speed by weekday and hour",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			defer logger.Sync()

			graph := catalog.YandexMapsGraph("times", "lengths")
			return runGraph(graph, map[string]func() compgraph.Stream{
				"times":   fileSourceFactory(args[0]),
				"lengths": fileSourceFactory(args[1]),
			}, cfg, logger)
		},
	}
	return cmd
}
