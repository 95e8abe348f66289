package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"metatag-auditor/internal/models"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Gerencia os usuários da API",
	}

	var (
		senha string
		admin bool
	)
	add := &cobra.Command{
		Use:   "add USUARIO",
		Short: "Cria um usuário",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.auth.RegistrarUsuario(cmd.Context(), models.Credenciais{Usuario: args[0], Senha: senha}, admin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "usuário %s criado (id %d, admin=%t)\n", u.Username, u.ID, u.IsAdmin)
			return nil
		},
	}
	add.Flags().StringVar(&senha, "password", "", "senha (mínimo 6 caracteres)")
	add.Flags().BoolVar(&admin, "admin", false, "concede permissão de administrador")
	_ = add.MarkFlagRequired("password")
	cmd.AddCommand(add)
	return cmd
}
