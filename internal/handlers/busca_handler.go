package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"metatag-auditor/internal/models"
	"metatag-auditor/internal/services"
)

// BuscaHandler atende as ações de busca avançada do admin-ajax
type BuscaHandler struct {
	Busca  *services.SearchService
	Diag   services.DiagnosticStore
	Driver string
	Now    func() time.Time
}

func NewBuscaHandler(search *services.SearchService, diag services.DiagnosticStore, driver string) *BuscaHandler {
	return &BuscaHandler{Busca: search, Diag: diag, Driver: driver, Now: time.Now}
}

// formLista aceita tanto post_types[] quanto post_types
func formLista(r *http.Request, name string) []string {
	if v, ok := r.Form[name+"[]"]; ok {
		return v
	}
	return r.Form[name]
}

func requisicaoDeBusca(r *http.Request) services.SearchRequest {
	paged, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("paged")))
	if paged < 0 {
		paged = -paged
	}
	return services.SearchRequest{
		Query:     r.FormValue("search_query"),
		PostTypes: formLista(r, "post_types"),
		Fields:    formLista(r, "search_fields"),
		Paged:     paged,
	}
}

func camposTexto(fields []models.SearchField) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

// Search é a ação advanced_search_content
func (h *BuscaHandler) Search(w http.ResponseWriter, r *http.Request) {
	params, err := h.Busca.Normalize(r.Context(), requisicaoDeBusca(r), services.SearchFormMessages)
	if err != nil {
		ajaxFail(w, err)
		return
	}
	res, err := h.Busca.Search(r.Context(), params)
	if err != nil {
		ajaxFail(w, err)
		return
	}
	ajaxSuccess(w, map[string]any{
		"results":       res.Items,
		"total":         res.Total,
		"total_pages":   res.TotalPages,
		"paged":         res.Paged,
		"search_query":  params.Phrase,
		"post_types":    params.PostTypes,
		"search_fields": camposTexto(params.Fields),
	})
}

// ExportCSV é a ação advanced_export_csv
func (h *BuscaHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "csv")
}

// ExportXLSX é a ação advanced_export_xlsx; o conteúdo continua sendo CSV
func (h *BuscaHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "xlsx")
}

func (h *BuscaHandler) export(w http.ResponseWriter, r *http.Request, ext string) {
	params, err := h.Busca.Normalize(r.Context(), requisicaoDeBusca(r), services.ExportFormMessages)
	if err != nil {
		ajaxFail(w, err)
		return
	}
	res, err := h.Busca.SearchAll(r.Context(), params)
	if err != nil {
		ajaxFail(w, err)
		return
	}
	data, err := services.ResultsCSV(res.Items, params.Phrase)
	if err != nil {
		ajaxFail(w, err)
		return
	}
	ajaxSuccess(w, map[string]string{
		ext:        data,
		"filename": "advanced-search-results-" + h.Now().UTC().Format("2006-01-02-150405") + "." + ext,
	})
}

// Diagnostic é a ação advanced_run_diagnostic
func (h *BuscaHandler) Diagnostic(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"timestamp":       h.Now().Format(services.MySQLTime),
		"database_driver": h.Driver,
		"last_error":      "",
	}
	if err := h.Diag.Ping(r.Context()); err != nil {
		out["database_connection"] = "FAIL"
		out["last_error"] = err.Error()
		ajaxSuccess(w, out)
		return
	}
	out["database_connection"] = "OK"

	total, err := h.Diag.CountPublished(r.Context(), models.AuditedTypes)
	if err != nil {
		out["last_error"] = err.Error()
	}
	out["published_posts"] = total
	ajaxSuccess(w, out)
}
