package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bryan-buckman/quill/internal/client"
)

func newUpdateCmd() *cobra.Command {
	var (
		title string
		path  string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the title or content of an existing article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var newTitle, newContent *string
			if cmd.Flags().Changed("title") {
				newTitle = &title
			}
			if cmd.Flags().Changed("path") {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read article: %w", err)
				}
				content := string(data)
				newContent = &content
			}

			cli, err := loadClient()
			if err != nil {
				return err
			}
			return client.New(cli.Addr, cli.Secret).Update(cmd.Context(), args[0], newTitle, newContent)
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "the new title")
	cmd.Flags().StringVarP(&path, "path", "p", "", "the path of the updated content")
	return cmd
}
