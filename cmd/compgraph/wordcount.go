package main

import (
	"github.com/spf13/cobra"

	"github.com/nightsea987/compgraph"
	"github.com/nightsea987/compgraph/catalog"
)

func newWordCountCmd() *cobra.Command {
	var textColumn, countColumn string
	cmd := &cobra.Command{
		Use:   "wordcount <input.jsonl>",
		Short: "Count word occurrences across all rows of a JSON-lines file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			defer logger.Sync()

			graph := catalog.WordCountGraph("input", textColumn, countColumn)
			return runGraph(graph, map[string]func() compgraph.Stream{
				"input": fileSourceFactory(args[0]),
			}, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&textColumn, "text-column", "text", "column holding the text to tokenize")
	cmd.Flags().StringVar(&countColumn, "count-column", "count", "output column for the word count")
	return cmd
}
