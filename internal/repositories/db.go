package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"metatag-auditor/internal/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// ErrNotFound indica que o registro não existe
var ErrNotFound = errors.New("registro não encontrado")

// Repository conecta o código ao banco de dados (Postgres em produção, SQLite local e em testes)
type Repository struct {
	DB     *sql.DB
	Driver string
}

func NewRepository(db *sql.DB, driver string) *Repository {
	return &Repository{DB: db, Driver: driver}
}

// Open abre a conexão e tenta o ping algumas vezes enquanto o banco sobe
func Open(ctx context.Context, driver, dsn string) (*Repository, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("falha ao criar diretório do banco: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("driver não suportado: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir banco: %w", err)
	}
	if driver == DriverSQLite {
		// uma conexão só: evita "database is locked" e mantém o :memory: vivo
		db.SetMaxOpenConns(1)
	}

	for i := 0; i < 5; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		logger.Warnf("repositories", "ping", "banco demorando a responder (tentativa %d): %v", i+1, err)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao conectar no banco: %w", err)
	}

	return NewRepository(db, driver), nil
}

// Ping confere se o banco responde
func (r *Repository) Ping(ctx context.Context) error {
	var um int
	return r.queryRow(ctx, "SELECT 1").Scan(&um)
}

// Close fecha a conexão
func (r *Repository) Close() error {
	return r.DB.Close()
}

// rebind troca os '?' pelos placeholders do driver ($1, $2... no Postgres)
func (r *Repository) rebind(query string) string {
	if r.Driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func (r *Repository) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.DB.ExecContext(ctx, r.rebind(query), args...)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.DB.QueryContext(ctx, r.rebind(query), args...)
}

func (r *Repository) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.DB.QueryRowContext(ctx, r.rebind(query), args...)
}

// inList monta "?, ?, ?" e os argumentos correspondentes
func inList(values []string) (string, []any) {
	marks := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		marks[i] = "?"
		args[i] = v
	}
	return strings.Join(marks, ", "), args
}
