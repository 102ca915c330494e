package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Printf("ERROR: %v", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	envFile    string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "doceria",
		Short:         "Doceria back office server",
		Long:          "Multi-store back office for a bakery: storefront API, orders, stock, suppliers and finance.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadSettings(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "./doceria.yaml", "path to the YAML config file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env", ".env", "optional .env file")

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newBootstrapOwnerCommand())
	cmd.AddCommand(newImportCommand())

	return cmd
}
