package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"metatag-auditor/internal/services"
)

func newSearchCmd() *cobra.Command {
	var (
		tipos   []string
		campos  []string
		pagina  int
		formato string
		todos   bool
	)
	cmd := &cobra.Command{
		Use:   "search FRASE",
		Short: "Busca a frase exata nos títulos e conteúdos publicados",
		Args:  cobra.MinimumNArgs(1),
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

			params, err := a.search.Normalize(cmd.Context(), services.SearchRequest{
				Query:     strings.Join(args, " "),
				PostTypes: tipos,
				Fields:    campos,
				Paged:     pagina,
			}, services.SearchFormMessages)
			if err != nil {
				return err
			}
			if todos {
				params.PerPage = -1
			}
			res, err := a.search.Search(cmd.Context(), params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch formato {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			case "csv":
				data, err := services.ResultsCSV(res.Items, params.Phrase)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(out, data)
				return err
			default:
				return fmt.Errorf("formato desconhecido %q (use csv ou json)", formato)
			}
		},
	}
	cmd.Flags().StringSliceVar(&tipos, "type", nil, "tipos de conteúdo (padrão post,page)")
	cmd.Flags().StringSliceVar(&campos, "field", nil, "campos: title, content (padrão os dois)")
	cmd.Flags().IntVar(&pagina, "page", 1, "página")
	cmd.Flags().BoolVar(&todos, "all", false, "traz todos os resultados sem paginar")
	cmd.Flags().StringVar(&formato, "format", "csv", "saída: csv ou json")
	return cmd
}
