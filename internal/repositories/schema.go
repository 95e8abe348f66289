package repositories

import (
	"context"
	"fmt"

	"metatag-auditor/internal/logger"
)

func (r *Repository) ddl() []string {
	idCol := "id BIGSERIAL PRIMARY KEY"
	if r.Driver == DriverSQLite {
		idCol = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS posts (
			%s,
			post_type TEXT NOT NULL DEFAULT 'post',
			post_status TEXT NOT NULL DEFAULT 'publish',
			post_title TEXT NOT NULL DEFAULT '',
			post_content TEXT NOT NULL DEFAULT '',
			post_name TEXT NOT NULL DEFAULT '',
			permalink TEXT NOT NULL DEFAULT '',
			post_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`, idCol),
		`CREATE INDEX IF NOT EXISTS idx_posts_type_status ON posts (post_type, post_status);`,
		`CREATE TABLE IF NOT EXISTS postmeta (
			post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			meta_key TEXT NOT NULL,
			meta_value TEXT NOT NULL,
			PRIMARY KEY (post_id, meta_key)
		);`,
		`CREATE TABLE IF NOT EXISTS options (
			option_name TEXT PRIMARY KEY,
			option_value TEXT NOT NULL
		);`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS usuarios (
			%s,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE
		);`, idCol),
	}
}

// InicializarTabelas cria a estrutura do banco se ainda não existir
func (r *Repository) InicializarTabelas(ctx context.Context) error {
	for _, stmt := range r.ddl() {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("erro ao criar estrutura do banco: %w", err)
		}
	}
	logger.Info("repositories", "schema", "banco de dados inicializado e verificado")
	return nil
}
