package handlers

import (
	"encoding/json"
	"net/http"

	"metatag-auditor/internal/models"
	"metatag-auditor/internal/services"
)

type AuthHandler struct {
	Service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{Service: service}
}

// Login é POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credenciais
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido"})
		return
	}

	token, usuario, err := h.Service.Login(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": usuario})
}

// Registrar é POST /api/users (só administradores)
func (h *AuthHandler) Registrar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		models.Credenciais
		Admin bool `json:"admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido"})
		return
	}

	u, err := h.Service.RegistrarUsuario(r.Context(), req.Credenciais, req.Admin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Nonce é GET /api/nonce?action=...
func (h *AuthHandler) Nonce(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if action == "" {
		writeError(w, &services.ErrValidation{Field: "action", Message: "action é obrigatório"})
		return
	}
	nonce, err := h.Service.CreateNonce(UsuarioDaRequisicao(r), action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"nonce": nonce})
}
