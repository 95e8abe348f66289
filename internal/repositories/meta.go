package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"metatag-auditor/internal/models"
)

// IssuesMetaKey é a chave do histórico de auditoria em postmeta
const IssuesMetaKey = "_mta_issues"

// GetHistory lê o histórico de um post; sem histórico devolve nil
func (r *Repository) GetHistory(ctx context.Context, postID int64) (models.History, error) {
	var raw string
	err := r.queryRow(ctx, "SELECT meta_value FROM postmeta WHERE post_id = ? AND meta_key = ?", postID, IssuesMetaKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao ler histórico do post %d: %w", postID, err)
	}

	var h models.History
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		// valor corrompido conta como histórico vazio
		return nil, nil
	}
	return h, nil
}

// SaveHistory sobrescreve o histórico de um post
func (r *Repository) SaveHistory(ctx context.Context, postID int64, h models.History) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("erro ao serializar histórico: %w", err)
	}
	_, err = r.exec(ctx, `INSERT INTO postmeta (post_id, meta_key, meta_value) VALUES (?, ?, ?)
		ON CONFLICT (post_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value`,
		postID, IssuesMetaKey, string(data))
	if err != nil {
		return fmt.Errorf("erro ao gravar histórico do post %d: %w", postID, err)
	}
	return nil
}

// DeleteHistory apaga o histórico de um post
func (r *Repository) DeleteHistory(ctx context.Context, postID int64) error {
	_, err := r.exec(ctx, "DELETE FROM postmeta WHERE post_id = ? AND meta_key = ?", postID, IssuesMetaKey)
	if err != nil {
		return fmt.Errorf("erro ao apagar histórico do post %d: %w", postID, err)
	}
	return nil
}

// PostsWithHistory lista os posts publicados que têm histórico, mais novos primeiro
func (r *Repository) PostsWithHistory(ctx context.Context, types []string) ([]models.PostIssues, error) {
	if len(types) == 0 {
		return nil, nil
	}
	marks, args := inList(types)
	args = append([]any{IssuesMetaKey}, args...)
	args = append(args, models.StatusPublish)

	rows, err := r.query(ctx, `SELECT p.id, p.post_type, p.post_status, p.post_title, p.post_content, p.post_name, p.permalink, p.post_date, m.meta_value
		FROM posts p
		JOIN postmeta m ON m.post_id = p.id AND m.meta_key = ?
		WHERE p.post_type IN (`+marks+`) AND p.post_status = ?
		ORDER BY p.post_date DESC, p.id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar posts com problemas: %w", err)
	}
	defer rows.Close()

	var lista []models.PostIssues
	for rows.Next() {
		var (
			pi  models.PostIssues
			raw string
		)
		p := &pi.Post
		if err := rows.Scan(&p.ID, &p.Type, &p.Status, &p.Title, &p.Content, &p.Slug, &p.Permalink, &p.Date, &raw); err != nil {
			return nil, fmt.Errorf("erro ao ler post com problemas: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &pi.History); err != nil || len(pi.History) == 0 {
			continue
		}
		lista = append(lista, pi)
	}
	return lista, rows.Err()
}
