package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"metatag-auditor/internal/logger"
	"metatag-auditor/internal/models"
	"metatag-auditor/internal/repositories"
)

const (
	sessionAction = "session"

	NonceScan       = "mta_scan_nonce"
	NonceSearch     = "advanced_content_search_nonce"
	NonceExportCSV  = "advanced_export_csv_nonce"
	NonceExportXLSX = "advanced_export_xlsx_nonce"
)

// Claims é o conteúdo dos tokens de sessão e dos nonces
type Claims struct {
	UserID  int64  `json:"uid"`
	IsAdmin bool   `json:"adm"`
	Action  string `json:"act"`
	jwt.RegisteredClaims
}

// AuthService cuida de login, sessões e nonces
type AuthService struct {
	Store    UserStore
	secret   []byte
	TokenTTL time.Duration
	NonceTTL time.Duration
	Now      func() time.Time
}

// NewAuthService cria o serviço; sem segredo configurado gera um aleatório (sessões não sobrevivem a restart)
func NewAuthService(store UserStore, secret string, tokenTTL, nonceTTL time.Duration) *AuthService {
	key := []byte(secret)
	if secret == "" {
		buf := make([]byte, 32)
		_, _ = rand.Read(buf)
		key = []byte(hex.EncodeToString(buf))
		logger.Warn("auth", "init", "auth.jwt_secret vazio, usando segredo temporário")
	}
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	if nonceTTL <= 0 {
		nonceTTL = 12 * time.Hour
	}
	return &AuthService{Store: store, secret: key, TokenTTL: tokenTTL, NonceTTL: nonceTTL, Now: time.Now}
}

// Login confere as credenciais e devolve o token de sessão
func (s *AuthService) Login(ctx context.Context, c models.Credenciais) (string, *models.User, error) {
	if strings.TrimSpace(c.Usuario) == "" || c.Senha == "" {
		return "", nil, &ErrValidation{Field: "usuario", Message: "usuário e senha são obrigatórios"}
	}
	u, err := s.Store.BuscarUsuarioLogin(ctx, c.Usuario, c.Senha)
	if errors.Is(err, repositories.ErrCredenciais) {
		return "", nil, &ErrUnauthorized{Reason: "login inválido"}
	}
	if err != nil {
		return "", nil, err
	}
	token, err := s.IssueToken(u)
	if err != nil {
		return "", nil, err
	}
	logger.Infof("auth", "login", "usuário %s autenticado", u.Username)
	return token, u, nil
}

// RegistrarUsuario cria um usuário novo
func (s *AuthService) RegistrarUsuario(ctx context.Context, c models.Credenciais, isAdmin bool) (*models.User, error) {
	if strings.TrimSpace(c.Usuario) == "" || len(c.Senha) < 6 {
		return nil, &ErrValidation{Field: "senha", Message: "usuário obrigatório e senha com pelo menos 6 caracteres"}
	}
	return s.Store.CriarUsuario(ctx, strings.TrimSpace(c.Usuario), c.Senha, isAdmin)
}

// IssueToken assina o token de sessão do usuário
func (s *AuthService) IssueToken(u *models.User) (string, error) {
	return s.sign(u, sessionAction, s.TokenTTL)
}

// ValidateToken devolve o usuário do token, relendo do banco
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, &ErrUnauthorized{Reason: err.Error()}
	}
	if claims.Action != sessionAction {
		return nil, &ErrUnauthorized{Reason: "token não é de sessão"}
	}
	u, err := s.Store.GetUser(ctx, claims.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, &ErrUnauthorized{Reason: "usuário removido"}
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateNonce gera um nonce preso à ação e ao usuário
func (s *AuthService) CreateNonce(u *models.User, action string) (string, error) {
	return s.sign(u, action, s.NonceTTL)
}

// VerifyNonce confere se o nonce é da ação e do usuário informados
func (s *AuthService) VerifyNonce(nonce, action string, u *models.User) error {
	if nonce == "" || u == nil {
		return &ErrForbidden{Reason: "Security check failed."}
	}
	claims, err := s.parse(nonce)
	if err != nil || claims.Action != action || claims.UserID != u.ID {
		return &ErrForbidden{Reason: "Security check failed."}
	}
	return nil
}

func (s *AuthService) sign(u *models.User, action string, ttl time.Duration) (string, error) {
	now := s.Now()
	claims := Claims{
		UserID:  u.ID,
		IsAdmin: u.IsAdmin,
		Action:  action,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("erro ao assinar token: %w", err)
	}
	return token, nil
}

func (s *AuthService) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.Now))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
