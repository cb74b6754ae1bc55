package cli

import (
	"github.com/spf13/cobra"

	"github.com/bryan-buckman/quill/internal/client"
)

func newYankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "yank <id>",
		Short: "Yank (delete) the article with the given ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := loadClient()
			if err != nil {
				return err
			}
			return client.New(cli.Addr, cli.Secret).Yank(cmd.Context(), args[0])
		},
	}
}
