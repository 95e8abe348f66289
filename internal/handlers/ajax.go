package handlers

import (
	"net/http"

	"metatag-auditor/internal/logger"
	"metatag-auditor/internal/services"
)

// ajaxAction é uma ação do admin-ajax com o nonce que ela exige
type ajaxAction struct {
	nonce   string
	negado  string
	handler http.HandlerFunc
}

// AjaxHandler despacha POST /wp-admin/admin-ajax.php pelo campo action
type AjaxHandler struct {
	Auth    *services.AuthService
	actions map[string]ajaxAction
}

func NewAjaxHandler(auth *services.AuthService) *AjaxHandler {
	return &AjaxHandler{Auth: auth, actions: map[string]ajaxAction{}}
}

// Register liga uma ação ao handler; negado é a mensagem para quem não é administrador
func (h *AjaxHandler) Register(action, nonce, negado string, fn http.HandlerFunc) {
	h.actions[action] = ajaxAction{nonce: nonce, negado: negado, handler: fn}
}

func (h *AjaxHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método inválido", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "0", http.StatusBadRequest)
		return
	}

	action := r.FormValue("action")
	a, ok := h.actions[action]
	if !ok {
		http.Error(w, "0", http.StatusBadRequest)
		return
	}

	u := UsuarioDaRequisicao(r)
	if err := h.Auth.VerifyNonce(nonceDaRequisicao(r), a.nonce, u); err != nil {
		logger.Warnf("ajax", action, "nonce inválido para %s", usernameOf(r))
		http.Error(w, "-1", http.StatusForbidden)
		return
	}
	if u == nil || !u.IsAdmin {
		ajaxError(w, http.StatusForbidden, a.negado)
		return
	}

	a.handler(w, r)
}

func usernameOf(r *http.Request) string {
	if u := UsuarioDaRequisicao(r); u != nil {
		return u.Username
	}
	return "anônimo"
}
