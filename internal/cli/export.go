package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"metatag-auditor/internal/logger"
	"metatag-auditor/internal/services"
)

func newExportCmd() *cobra.Command {
	var (
		filtro services.AuditFilter
		saida  string
	)
	cmd := &cobra.Command{
		Use:       "export csv|ids",
		Short:     "Exporta o relatório de problemas (CSV) ou a lista de ids (TXT)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"csv", "ids"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "csv" && args[0] != "ids" {
				return fmt.Errorf("formato desconhecido %q (use csv ou ids)", args[0])
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

			write := a.export.WriteCSV
			filename := a.export.CSVFilename()
			if args[0] == "ids" {
				write = a.export.WriteIDs
				filename = a.export.IDsFilename()
			}

			if saida == "-" {
				return write(cmd.Context(), cmd.OutOrStdout(), filtro)
			}
			if saida == "" {
				saida = filename
			}
			return writeFile(cmd.Context(), saida, func(ctx context.Context, w io.Writer) error {
				return write(ctx, w, filtro)
			})
		},
	}
	cmd.Flags().StringVar(&filtro.Issue, "issue", "", "filtra pelo texto do problema")
	cmd.Flags().StringVar(&filtro.PostType, "type", "", "filtra pelo tipo de conteúdo (post ou page)")
	cmd.Flags().StringVarP(&saida, "output", "o", "", "arquivo de saída ('-' para stdout; padrão é o nome gerado)")
	return cmd
}

func writeFile(ctx context.Context, path string, fn func(context.Context, io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(ctx, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Infof("export", "arquivo", "gravado %s", path)
	return nil
}
