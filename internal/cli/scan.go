package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newScanCmd() *cobra.Command {
	var batch int
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Audita os posts publicados (um lote com --batch, ou tudo retomando do progresso)",
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

			out := cmd.OutOrStdout()
			if batch > 0 {
				res, err := a.robo.ScanBatch(cmd.Context(), batch)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			id, err := a.full.Run(cmd.Context())
			if err != nil {
				return err
			}
			st, err := a.robo.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "auditoria %s concluída em %s\n", id, st.LastAuditRun)
			return nil
		},
	}
	cmd.Flags().IntVar(&batch, "batch", 0, "audita só este lote (começando em 1)")
	cmd.Flags().Int("batch-size", 0, "posts por lote")
	_ = viper.BindPFlag("audit.batch_size", cmd.Flags().Lookup("batch-size"))
	return cmd
}
