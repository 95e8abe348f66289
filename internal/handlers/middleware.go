package handlers

import (
	"context"
	"net/http"
	"strings"

	"metatag-auditor/internal/models"
	"metatag-auditor/internal/services"
)

type contextKey string

const userKey contextKey = "usuario"

// AuthMiddleware exige um token de sessão válido no header Authorization
func AuthMiddleware(auth *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
				return
			}

			u, err := auth.ValidateToken(r.Context(), parts[1])
			if err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
		})
	}
}

// RequireAdmin barra quem não é administrador
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UsuarioDaRequisicao(r)
		if u == nil || !u.IsAdmin {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Insufficient permissions."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UsuarioDaRequisicao devolve o usuário autenticado, ou nil
func UsuarioDaRequisicao(r *http.Request) *models.User {
	u, _ := r.Context().Value(userKey).(*models.User)
	return u
}

// nonceDaRequisicao lê o nonce do formulário ou do header X-WP-Nonce
func nonceDaRequisicao(r *http.Request) string {
	if n := r.FormValue("nonce"); n != "" {
		return n
	}
	return r.Header.Get("X-WP-Nonce")
}
