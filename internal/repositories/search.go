package repositories

import (
	"context"
	"fmt"
	"strings"

	"metatag-auditor/internal/models"
)

// EscapeLike escapa os curingas do LIKE (\, % e _)
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// BuildSearchWhere monta a cláusula WHERE da busca por frase exata.
// Campos fora de title/content são ignorados.
func BuildSearchWhere(phrase string, fields []models.SearchField, postTypes []string) (string, []any) {
	like := "%" + EscapeLike(phrase) + "%"

	var (
		clauses []string
		args    []any
	)
	for _, f := range fields {
		var col string
		switch f {
		case models.FieldTitle:
			col = "post_title"
		case models.FieldContent:
			col = "post_content"
		default:
			continue
		}
		clauses = append(clauses, "LOWER("+col+`) LIKE LOWER(?) ESCAPE '\'`)
		args = append(args, like)
	}

	marks, typeArgs := inList(postTypes)
	args = append(args, typeArgs...)
	args = append(args, models.StatusPublish)

	where := "(" + strings.Join(clauses, " OR ") + ") AND post_type IN (" + marks + ") AND post_status = ?"
	return where, args
}

// SearchCount conta os posts que casam com a cláusula
func (r *Repository) SearchCount(ctx context.Context, where string, args []any) (int, error) {
	var total int
	if err := r.queryRow(ctx, "SELECT COUNT(id) FROM posts WHERE "+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("erro na contagem da busca: %w", err)
	}
	return total, nil
}

// SearchPosts devolve os posts da cláusula, mais recentes primeiro; limit <= 0 traz tudo
func (r *Repository) SearchPosts(ctx context.Context, where string, args []any, limit, offset int) ([]models.Post, error) {
	q := "SELECT " + postColumns + " FROM posts WHERE " + where + " ORDER BY post_date DESC, id DESC"
	all := append([]any{}, args...)
	if limit > 0 {
		q += " LIMIT ? OFFSET ?"
		all = append(all, limit, offset)
	}

	rows, err := r.query(ctx, q, all...)
	if err != nil {
		return nil, fmt.Errorf("erro na busca: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler resultado da busca: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
