package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bryan-buckman/quill/internal/client"
)

func newPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <path> [title]",
		Short: "Publish an article to a blog",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read article: %w", err)
			}

			var title string
			if len(args) == 2 {
				title = args[1]
			} else {
				fmt.Fprint(cmd.OutOrStdout(), "Please enter a title for the post: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil {
					return fmt.Errorf("read title: %w", err)
				}
				title = strings.TrimSpace(line)
			}

			cli, err := loadClient()
			if err != nil {
				return err
			}
			id, err := client.New(cli.Addr, cli.Secret).Publish(cmd.Context(), title, string(content))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published as %s\n", id)
			return nil
		},
	}
}
