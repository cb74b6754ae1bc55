package cli

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/bryan-buckman/quill/internal/database"
)

// openStore opens the configured database for the secret commands, which
// run server-side with no network hop.
func openStore() (database.Store, error) {
	db := "articles.db"
	if cfg, err := loadConfig(); err == nil && cfg.Server != nil {
		db = cfg.Server.DB
	}
	return database.Open(db)
}

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage server-side secrets",
	}
	cmd.AddCommand(newSecretCreateCmd(), newSecretListCmd(), newSecretRevokeCmd())
	return cmd
}

func newSecretCreateCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new secret, optionally with a description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			token, err := store.CreateSecret(cmd.Context(), description)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Your client secret is:")
			fmt.Fprintln(out, token)
			fmt.Fprintln(out, "Please note that you will *not* be able to see it again.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "what this secret is for")
	return cmd
}

func newSecretListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the existing secrets by ID. Does not actually show the secrets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			infos, err := store.ListSecrets(cmd.Context())
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Description"})
			for _, info := range infos {
				desc := info.Description
				if desc == "" {
					desc = "-"
				}
				table.Append([]string{fmt.Sprintf("%d", info.ID), desc})
			}
			table.Render()
			return nil
		},
	}
}

func newSecretRevokeCmd() *cobra.Command {
	var id int64
	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revokes the secret with the given ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.RevokeSecret(cmd.Context(), id)
		},
	}
	cmd.Flags().Int64VarP(&id, "id", "i", 0, "the secret to revoke")
	cmd.MarkFlagRequired("id")
	return cmd
}
