package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"metatag-auditor/internal/logger"
	"metatag-auditor/internal/repositories"
	"metatag-auditor/internal/services"
)

// HTTPStatus escolhe o status HTTP de um erro
func HTTPStatus(err error) int {
	var (
		verr   *services.ErrValidation
		unauth *services.ErrUnauthorized
		forb   *services.ErrForbidden
		uerr   *services.UserError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &uerr):
		return http.StatusBadRequest
	case errors.As(err, &unauth):
		return http.StatusUnauthorized
	case errors.As(err, &forb):
		return http.StatusForbidden
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAuditRunning):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("http", "encode", "%v", err)
	}
}

// writeError responde {"error": ...}; erro interno não vaza detalhes
func writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Errorf("http", "erro", "%v", err)
		msg = "Erro interno"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// ajaxResponse é o envelope do admin-ajax
type ajaxResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func ajaxSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, ajaxResponse{Success: true, Data: data})
}

func ajaxError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ajaxResponse{Success: false, Data: map[string]string{"message": message}})
}

// ajaxFail responde o erro no envelope; erros de usuário vão com 200, como o admin-ajax faz
func ajaxFail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusBadRequest {
		status = http.StatusOK
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Errorf("ajax", "erro", "%v", err)
		msg = "An unexpected error occurred."
	}
	ajaxError(w, status, msg)
}
