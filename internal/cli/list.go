package cli

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/bryan-buckman/quill/internal/client"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all published articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := loadClient()
			if err != nil {
				return err
			}
			metas, err := client.New(cli.Addr, cli.Secret).List(cmd.Context())
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Title", "Publication Date"})
			for _, m := range metas {
				table.Append([]string{m.ID, m.Title, m.Published.Format("02.01.2006 15:04")})
			}
			table.Render()
			return nil
		},
	}
}
