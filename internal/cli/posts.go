package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"metatag-auditor/internal/models"
)

func newPostsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Gerencia o conteúdo auditado",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import ARQUIVO.json",
		Short: "Importa (ou atualiza) posts a partir de um array JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var posts []models.Post
			if err := json.Unmarshal(data, &posts); err != nil {
				return fmt.Errorf("JSON inválido em %s: %w", args[0], err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			for i := range posts {
				if err := a.repo.UpsertPost(cmd.Context(), &posts[i]); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d posts importados\n", len(posts))
			return nil
		},
	})
	return cmd
}
