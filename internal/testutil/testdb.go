// Package testutil reúne utilitários compartilhados pelos testes.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"metatag-auditor/internal/models"
	"metatag-auditor/internal/repositories"
)

// NewRepository abre um SQLite em memória já com as tabelas criadas
func NewRepository(t *testing.T) *repositories.Repository {
	t.Helper()
	ctx := context.Background()

	repo, err := repositories.Open(ctx, repositories.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.NoError(t, repo.InicializarTabelas(ctx))
	return repo
}

// SeedPost grava um post publicado e devolve o registro com id
func SeedPost(t *testing.T, repo *repositories.Repository, p models.Post) models.Post {
	t.Helper()
	if p.Date.IsZero() {
		p.Date = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(p.ID) * time.Hour)
	}
	require.NoError(t, repo.UpsertPost(context.Background(), &p))
	return p
}
