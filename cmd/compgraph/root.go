package main

import (
	"github.com/spf13/cobra"

	"github.com/nightsea987/compgraph/config"
)

// rootCommand wires the cobra command tree.
type rootCommand struct {
	cmd *cobra.Command
}

func (r *rootCommand) execute() error {
	root := &cobra.Command{
		Use:   "compgraph",
		Short: "Run the reference computational-graph pipelines over row streams",
	}

	config.BindFlags(root.PersistentFlags())

	root.AddCommand(newWordCountCmd())
	root.AddCommand(newTFIDFCmd())
	root.AddCommand(newPMICmd())
	root.AddCommand(newMapsCmd())

	r.cmd = root
	return root.Execute()
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	return config.Load(cmd.Flags())
}
