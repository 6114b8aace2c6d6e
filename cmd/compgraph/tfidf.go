package main

import (
	"github.com/spf13/cobra"

	"github.com/nightsea987/compgraph"
	"github.com/nightsea987/compgraph/catalog"
)

func newTFIDFCmd() *cobra.Command {
	var docColumn, textColumn, resultColumn string
	cmd := &cobra.Command{
		Use:   "tfidf <input.jsonl>",
		Short: "Compute top-3 TF-IDF documents per word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			defer logger.Sync()

			graph := catalog.InvertedIndexGraph("input", docColumn, textColumn, resultColumn)
			return runGraph(graph, map[string]func() compgraph.Stream{
				"input": fileSourceFactory(args[0]),
			}, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&docColumn, "doc-column", "doc_id", "column identifying the source document")
	cmd.Flags().StringVar(&textColumn, "text-column", "text", "column holding the text to tokenize")
	cmd.Flags().StringVar(&resultColumn, "result-column", "tf_idf", "output column for the TF-IDF score")
	return cmd
}
