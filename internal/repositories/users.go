package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"metatag-auditor/internal/models"
)

// ErrCredenciais indica usuário inexistente ou senha incorreta
var ErrCredenciais = errors.New("usuário ou senha inválidos")

// CriarUsuario grava um usuário com a senha em bcrypt (nunca salva texto puro)
func (r *Repository) CriarUsuario(ctx context.Context, username, senhaRaw string, isAdmin bool) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(senhaRaw), 10)
	if err != nil {
		return nil, err
	}

	u := &models.User{Username: username, IsAdmin: isAdmin}
	err = r.queryRow(ctx, "INSERT INTO usuarios (username, password_hash, is_admin) VALUES (?, ?, ?) RETURNING id",
		username, string(hash), isAdmin).Scan(&u.ID)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar usuário: %w", err)
	}
	return u, nil
}

// BuscarUsuarioLogin confere a senha e devolve os dados seguros do usuário
func (r *Repository) BuscarUsuarioLogin(ctx context.Context, username, senhaRaw string) (*models.User, error) {
	var (
		u         models.User
		hashSalvo string
	)
	err := r.queryRow(ctx, "SELECT id, username, password_hash, is_admin FROM usuarios WHERE username = ?", username).
		Scan(&u.ID, &u.Username, &hashSalvo, &u.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCredenciais
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar usuário: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashSalvo), []byte(senhaRaw)); err != nil {
		return nil, ErrCredenciais
	}
	return &u, nil
}

// GetUser busca um usuário pelo id
func (r *Repository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.queryRow(ctx, "SELECT id, username, is_admin FROM usuarios WHERE id = ?", id).Scan(&u.ID, &u.Username, &u.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar usuário %d: %w", id, err)
	}
	return &u, nil
}

// GarantirAdmin cria o administrador padrão se ele ainda não existir
func (r *Repository) GarantirAdmin(ctx context.Context, username, senhaRaw string) error {
	var existe int
	err := r.queryRow(ctx, "SELECT COUNT(id) FROM usuarios WHERE username = ?", username).Scan(&existe)
	if err != nil {
		return fmt.Errorf("erro ao verificar admin: %w", err)
	}
	if existe > 0 {
		return nil
	}
	_, err = r.CriarUsuario(ctx, username, senhaRaw, true)
	return err
}
