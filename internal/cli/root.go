// Package cli monta os comandos do metatag-auditor.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"metatag-auditor/internal/config"
	"metatag-auditor/internal/logger"
)

var (
	Version = "0.1.0"

	cfgFile string
	rootCmd = newRootCmd()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "metatag-auditor",
		Short:         "Auditor de meta tags de SEO com busca avançada de conteúdo",
		Long:          "Varre os posts publicados procurando problemas de SEO (canonical, title, description, H1, Open Graph), guarda o histórico e exporta relatórios.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "arquivo de configuração (padrão ./config.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "mostra logs INFO")
	cmd.PersistentFlags().String("db-driver", "", "driver do banco (postgres ou sqlite3)")
	cmd.PersistentFlags().String("db-url", "", "DSN do banco")
	_ = viper.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("database.driver", cmd.PersistentFlags().Lookup("db-driver"))
	_ = viper.BindPFlag("database.url", cmd.PersistentFlags().Lookup("db-url"))

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newPostsCmd())
	cmd.AddCommand(newUsersCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig lê .env, config.yaml, ambiente e flags
func loadConfig() (*config.Config, error) {
	v := viper.GetViper()
	if err := config.Init(v, cfgFile); err != nil {
		return nil, err
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, err
	}
	logger.Init(os.Stderr, cfg.Verbose)
	return cfg, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Mostra a versão",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "metatag-auditor %s\n", Version)
		},
	}
}
