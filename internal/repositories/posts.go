package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"metatag-auditor/internal/models"
)

const postColumns = "id, post_type, post_status, post_title, post_content, post_name, permalink, post_date"

func scanPost(row interface{ Scan(...any) error }) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.Type, &p.Status, &p.Title, &p.Content, &p.Slug, &p.Permalink, &p.Date)
	return p, err
}

// UpsertPost grava um post; com ID zero o banco gera o identificador
func (r *Repository) UpsertPost(ctx context.Context, p *models.Post) error {
	if p.Type == "" {
		p.Type = models.TypePost
	}
	if p.Status == "" {
		p.Status = models.StatusPublish
	}
	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	date := p.Date.UTC()

	if p.ID == 0 {
		err := r.queryRow(ctx, `INSERT INTO posts (post_type, post_status, post_title, post_content, post_name, permalink, post_date)
			VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
			p.Type, p.Status, p.Title, p.Content, p.Slug, p.Permalink, date).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("erro ao inserir post: %w", err)
		}
		return nil
	}

	_, err := r.exec(ctx, `INSERT INTO posts (id, post_type, post_status, post_title, post_content, post_name, permalink, post_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			post_type = excluded.post_type,
			post_status = excluded.post_status,
			post_title = excluded.post_title,
			post_content = excluded.post_content,
			post_name = excluded.post_name,
			permalink = excluded.permalink,
			post_date = excluded.post_date`,
		p.ID, p.Type, p.Status, p.Title, p.Content, p.Slug, p.Permalink, date)
	if err != nil {
		return fmt.Errorf("erro ao gravar post %d: %w", p.ID, err)
	}

	if r.Driver == DriverPostgres {
		// ids explícitos não avançam a sequence
		if _, err := r.exec(ctx, `SELECT setval(pg_get_serial_sequence('posts', 'id'), (SELECT MAX(id) FROM posts))`); err != nil {
			return fmt.Errorf("erro ao ajustar sequence de posts: %w", err)
		}
	}
	return nil
}

// GetPost busca um post pelo id
func (r *Repository) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	p, err := scanPost(r.queryRow(ctx, "SELECT "+postColumns+" FROM posts WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar post %d: %w", id, err)
	}
	return &p, nil
}

// CountPublished conta os posts publicados dos tipos informados
func (r *Repository) CountPublished(ctx context.Context, types []string) (int, error) {
	if len(types) == 0 {
		return 0, nil
	}
	marks, args := inList(types)
	args = append(args, models.StatusPublish)

	var total int
	err := r.queryRow(ctx, "SELECT COUNT(id) FROM posts WHERE post_type IN ("+marks+") AND post_status = ?", args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar posts: %w", err)
	}
	return total, nil
}

// PublishedPage devolve uma página de posts publicados em ordem crescente de id
func (r *Repository) PublishedPage(ctx context.Context, types []string, limit, offset int) ([]models.Post, error) {
	if len(types) == 0 {
		return nil, nil
	}
	marks, args := inList(types)
	args = append(args, models.StatusPublish, limit, offset)

	rows, err := r.query(ctx, "SELECT "+postColumns+" FROM posts WHERE post_type IN ("+marks+") AND post_status = ? ORDER BY id ASC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// PostTypes lista os tipos de conteúdo existentes
func (r *Repository) PostTypes(ctx context.Context) ([]string, error) {
	rows, err := r.query(ctx, "SELECT DISTINCT post_type FROM posts ORDER BY post_type")
	if err != nil {
		return nil, fmt.Errorf("erro ao listar tipos: %w", err)
	}
	defer rows.Close()

	var tipos []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tipos = append(tipos, t)
	}
	return tipos, rows.Err()
}
