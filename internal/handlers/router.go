package handlers

import (
	"net/http"

	"metatag-auditor/internal/logger"
	"metatag-auditor/internal/services"
)

// Deps são os componentes que as rotas usam
type Deps struct {
	Auth      *AuthHandler
	Auditoria *AuditoriaHandler
	Relatorio *RelatorioHandler
	Busca     *BuscaHandler
}

// NewRouter registra as rotas da API e do admin-ajax
func NewRouter(auth *services.AuthService, d Deps) http.Handler {
	mux := http.NewServeMux()
	sessao := AuthMiddleware(auth)
	admin := func(h http.HandlerFunc) http.Handler {
		return sessao(RequireAdmin(h))
	}

	ajax := NewAjaxHandler(auth)
	ajax.Register("mta_scan_batch", services.NonceScan, "Unauthorized", d.Auditoria.ScanBatch)
	ajax.Register("advanced_search_content", services.NonceSearch, "Insufficient permissions.", d.Busca.Search)
	ajax.Register("advanced_export_csv", services.NonceExportCSV, "Insufficient permissions.", d.Busca.ExportCSV)
	ajax.Register("advanced_export_xlsx", services.NonceExportXLSX, "Insufficient permissions.", d.Busca.ExportXLSX)
	ajax.Register("advanced_run_diagnostic", services.NonceSearch, "Insufficient permissions.", d.Busca.Diagnostic)
	mux.Handle("POST /wp-admin/admin-ajax.php", sessao(ajax))

	mux.Handle("POST /wp-admin/tools.php", admin(d.Relatorio.Download))

	mux.Handle("GET /api/audit/stats", admin(d.Relatorio.Stats))
	mux.Handle("GET /api/audit/results", admin(d.Relatorio.Results))
	mux.Handle("GET /api/audit/progress", admin(d.Auditoria.Progress))
	mux.Handle("POST /api/audit/run", admin(d.Auditoria.Run))

	mux.HandleFunc("POST /api/login", d.Auth.Login)
	mux.Handle("POST /api/users", admin(d.Auth.Registrar))
	mux.Handle("GET /api/nonce", sessao(http.HandlerFunc(d.Auth.Nonce)))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Infof("http", r.Method, "%s %d", r.URL.Path, rec.status)
	})
}
