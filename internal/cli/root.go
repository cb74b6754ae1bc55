// Package cli implements the quill command line front end.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bryan-buckman/quill/internal/config"
)

var cfgFile string

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quill",
		Short:         "Single-author blog server and publishing client",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "blog.toml", "path to the config file")
	root.AddCommand(
		newServeCmd(),
		newPublishCmd(),
		newListCmd(),
		newYankCmd(),
		newUpdateCmd(),
		newSecretCmd(),
	)
	return root
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

func loadClient() (*config.ClientConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.ClientOrErr()
}
