package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metatag-auditor/internal/models"
	"metatag-auditor/internal/repositories"
	"metatag-auditor/internal/testutil"
)

func TestRebindPlaceholders(t *testing.T) {
	pg := repositories.NewRepository(nil, repositories.DriverPostgres)
	where, args := repositories.BuildSearchWhere("x", []models.SearchField{models.FieldTitle}, []string{"post", "page"})
	assert.Equal(t, `(LOWER(post_title) LIKE LOWER(?) ESCAPE '\') AND post_type IN (?, ?) AND post_status = ?`, where)
	assert.Equal(t, []any{"%x%", "post", "page", "publish"}, args)
	assert.Equal(t, `SELECT 1 WHERE a = $1 AND b IN ($2, $3)`, repositories.Rebind(pg, `SELECT 1 WHERE a = ? AND b IN (?, ?)`))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% \_off\\`, repositories.EscapeLike(`100% _off\`))
}

func TestPosts_PaginaPublicadosPorID(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()

	testutil.SeedPost(t, repo, models.Post{ID: 3, Title: "c"})
	testutil.SeedPost(t, repo, models.Post{ID: 1, Title: "a", Type: models.TypePage})
	testutil.SeedPost(t, repo, models.Post{ID: 2, Title: "rascunho", Status: "draft"})
	testutil.SeedPost(t, repo, models.Post{ID: 4, Title: "produto", Type: "product"})
	testutil.SeedPost(t, repo, models.Post{ID: 5, Title: "e"})

	total, err := repo.CountPublished(ctx, models.AuditedTypes)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	page, err := repo.PublishedPage(ctx, models.AuditedTypes, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(1), page[0].ID)
	assert.Equal(t, int64(3), page[1].ID)

	page, err = repo.PublishedPage(ctx, models.AuditedTypes, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(5), page[0].ID)

	tipos, err := repo.PostTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"page", "post", "product"}, tipos)
}

func TestPosts_UpsertAtualiza(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()

	testutil.SeedPost(t, repo, models.Post{ID: 10, Title: "antes", Permalink: "https://a.test/p/"})
	testutil.SeedPost(t, repo, models.Post{ID: 10, Title: "depois", Permalink: "https://a.test/p/"})

	p, err := repo.GetPost(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "depois", p.Title)

	_, err = repo.GetPost(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	novo := models.Post{Title: "auto"}
	require.NoError(t, repo.UpsertPost(ctx, &novo))
	assert.Greater(t, novo.ID, int64(10))
}

func TestHistory_RoundTripEDelete(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()
	testutil.SeedPost(t, repo, models.Post{ID: 1, Title: "a"})

	h, err := repo.GetHistory(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, h)

	when := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	h = models.History{{Time: when, Issues: []models.Issue{{Type: models.IssueInfo, Text: "Missing og:title"}}}}
	require.NoError(t, repo.SaveHistory(ctx, 1, h))

	got, err := repo.GetHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, when.Equal(got[0].Time))
	assert.Equal(t, "Missing og:title", got[0].Issues[0].Text)

	lista, err := repo.PostsWithHistory(ctx, models.AuditedTypes)
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, int64(1), lista[0].Post.ID)

	require.NoError(t, repo.DeleteHistory(ctx, 1))
	lista, err = repo.PostsWithHistory(ctx, models.AuditedTypes)
	require.NoError(t, err)
	assert.Empty(t, lista)
}

func TestOptions_ScanProgress(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()

	p, err := repo.GetScanProgress(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, repo.SaveScanProgress(ctx, models.ScanProgress{Batch: 2, Total: 5, Time: 1700000000}))
	require.NoError(t, repo.SaveScanProgress(ctx, models.ScanProgress{Batch: 3, Total: 5, Time: 1700000001}))

	p, err = repo.GetScanProgress(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 3, p.Batch)

	require.NoError(t, repo.DeleteScanProgress(ctx))
	p, err = repo.GetScanProgress(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, repo.SetLastAuditRun(ctx, "2025-03-01 10:00:00"))
	last, err := repo.GetLastAuditRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01 10:00:00", last)
}

func TestUsuarios_LoginBcrypt(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.GarantirAdmin(ctx, "admin", "segredo"))
	require.NoError(t, repo.GarantirAdmin(ctx, "admin", "outra"))

	u, err := repo.BuscarUsuarioLogin(ctx, "admin", "segredo")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	_, err = repo.BuscarUsuarioLogin(ctx, "admin", "outra")
	assert.ErrorIs(t, err, repositories.ErrCredenciais)
	_, err = repo.BuscarUsuarioLogin(ctx, "ninguem", "x")
	assert.ErrorIs(t, err, repositories.ErrCredenciais)

	_, err = repo.CriarUsuario(ctx, "admin", "dup", false)
	assert.Error(t, err)
}

func TestSearch_FraseExataCaseInsensitive(t *testing.T) {
	repo := testutil.NewRepository(t)
	ctx := context.Background()

	testutil.SeedPost(t, repo, models.Post{ID: 1, Title: "Hello World", Content: "..."})
	testutil.SeedPost(t, repo, models.Post{ID: 2, Title: "x", Content: "say hello world again"})
	testutil.SeedPost(t, repo, models.Post{ID: 3, Title: "hello", Content: "world"})
	testutil.SeedPost(t, repo, models.Post{ID: 4, Title: "50% off", Content: ""})
	testutil.SeedPost(t, repo, models.Post{ID: 5, Title: "500 off", Content: ""})

	where, args := repositories.BuildSearchWhere("hello world", []models.SearchField{models.FieldTitle, models.FieldContent}, models.AuditedTypes)
	total, err := repo.SearchCount(ctx, where, args)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	posts, err := repo.SearchPosts(ctx, where, args, 1, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(2), posts[0].ID, "mais recente primeiro")

	where, args = repositories.BuildSearchWhere("50%", []models.SearchField{models.FieldTitle}, models.AuditedTypes)
	posts, err = repo.SearchPosts(ctx, where, args, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(4), posts[0].ID)
}
