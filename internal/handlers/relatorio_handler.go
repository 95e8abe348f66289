package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"metatag-auditor/internal/logger"
	"metatag-auditor/internal/services"
)

// RelatorioHandler serve o painel e os downloads de relatório
type RelatorioHandler struct {
	Dashboard *services.DashboardService
	Export    *services.ExportService
}

func NewRelatorioHandler(dashboard *services.DashboardService, export *services.ExportService) *RelatorioHandler {
	return &RelatorioHandler{Dashboard: dashboard, Export: export}
}

func filtroDaRequisicao(r *http.Request) services.AuditFilter {
	q := r.URL.Query()
	return services.AuditFilter{
		Issue:    strings.TrimSpace(q.Get("mta_filter_issue")),
		PostType: strings.TrimSpace(q.Get("mta_filter_type")),
	}
}

// Stats é GET /api/audit/stats
func (h *RelatorioHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Dashboard.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Results é GET /api/audit/results, paginado por mta_paged
func (h *RelatorioHandler) Results(w http.ResponseWriter, r *http.Request) {
	paged, _ := strconv.Atoi(r.URL.Query().Get("mta_paged"))
	res, err := h.Dashboard.Results(r.Context(), filtroDaRequisicao(r), paged)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Download trata o formulário de exportação da página do auditor
func (h *RelatorioHandler) Download(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("page") != "metatag-auditor" {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulário inválido", http.StatusBadRequest)
		return
	}

	f := filtroDaRequisicao(r)
	var (
		buf         bytes.Buffer
		err         error
		filename    string
		contentType string
	)
	switch {
	case r.PostForm.Has("mta_export_ids"):
		err = h.Export.WriteIDs(r.Context(), &buf, f)
		filename, contentType = h.Export.IDsFilename(), "text/plain; charset=UTF-8"
	case r.PostForm.Has("mta_export_csv"):
		err = h.Export.WriteCSV(r.Context(), &buf, f)
		filename, contentType = h.Export.CSVFilename(), "text/csv; charset=UTF-8"
	default:
		http.Error(w, "Exportação desconhecida", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Infof("relatorio", "download", "%s (%d bytes)", filename, buf.Len())
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, _ = buf.WriteTo(w)
}
