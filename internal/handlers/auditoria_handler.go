package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"metatag-auditor/internal/services"
)

// AuditoriaHandler expõe a varredura em lotes e a auditoria completa
type AuditoriaHandler struct {
	Robo *services.RoboService
	Full *services.FullAudit
	// BaseCtx vive tanto quanto o servidor; a auditoria em segundo plano não pode morrer com a requisição
	BaseCtx context.Context
}

func NewAuditoriaHandler(robo *services.RoboService, full *services.FullAudit, baseCtx context.Context) *AuditoriaHandler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &AuditoriaHandler{Robo: robo, Full: full, BaseCtx: baseCtx}
}

// ScanBatch é a ação mta_scan_batch do admin-ajax
func (h *AuditoriaHandler) ScanBatch(w http.ResponseWriter, r *http.Request) {
	batch, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("batch")))

	res, err := h.Robo.ScanBatch(r.Context(), batch)
	if err != nil {
		ajaxFail(w, err)
		return
	}
	ajaxSuccess(w, res)
}

// Progress é GET /api/audit/progress
func (h *AuditoriaHandler) Progress(w http.ResponseWriter, r *http.Request) {
	st, err := h.Robo.Status(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	h.Full.Fill(st)
	writeJSON(w, http.StatusOK, st)
}

// Run é POST /api/audit/run: dispara a auditoria completa em segundo plano
func (h *AuditoriaHandler) Run(w http.ResponseWriter, r *http.Request) {
	id, err := h.Full.Start(h.BaseCtx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"run_id": id})
}
