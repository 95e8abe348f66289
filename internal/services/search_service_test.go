package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metatag-auditor/internal/models"
	"metatag-auditor/internal/repositories"
	"metatag-auditor/internal/testutil"
)

func seedBusca(t *testing.T) *repositories.Repository {
	t.Helper()
	repo := testutil.NewRepository(t)
	testutil.SeedPost(t, repo, models.Post{ID: 1, Title: "Hello World", Content: "<p>nada aqui</p>", Permalink: "https://site.test/1"})
	testutil.SeedPost(t, repo, models.Post{ID: 2, Title: "Outro", Content: "<p>say hello world again</p><script>var x = 1;</script>", Permalink: "https://site.test/2"})
	testutil.SeedPost(t, repo, models.Post{ID: 3, Title: "Sobre", Type: models.TypePage, Content: "HELLO WORLD na página", Permalink: "https://site.test/3"})
	testutil.SeedPost(t, repo, models.Post{ID: 4, Title: "hello world rascunho", Status: "draft"})
	testutil.SeedPost(t, repo, models.Post{ID: 5, Title: "Promo 100% off", Content: "desconto 100x"})
	testutil.SeedPost(t, repo, models.Post{ID: 6, Title: "hello there world"})
	return repo
}

func buscaPadrao(phrase string) models.SearchParams {
	return models.SearchParams{
		Phrase:    phrase,
		PostTypes: []string{models.TypePost, models.TypePage},
		Fields:    []models.SearchField{models.FieldTitle, models.FieldContent},
		Paged:     1,
	}
}

func TestSearch_FraseExataSemDiferenciarMaiusculas(t *testing.T) {
	s := NewSearchService(seedBusca(t), 20, "https://site.test/wp-admin")
	res, err := s.Search(context.Background(), buscaPadrao("  hello world "))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.TotalPages)
	ids := []int64{}
	for _, it := range res.Items {
		ids = append(ids, it.ID)
	}
	// mais recentes primeiro; rascunho e "hello there world" ficam de fora
	assert.Equal(t, []int64{3, 2, 1}, ids)
	assert.Equal(t, "Pages", res.Items[0].PostTypeLabel)
	assert.Equal(t, "Posts", res.Items[1].PostTypeLabel)
	assert.Equal(t, "say hello world again", res.Items[1].Excerpt)
	assert.Equal(t, "https://site.test/wp-admin/post.php?post=2&action=edit", res.Items[1].EditURL)
}

func TestSearch_SoTitulo(t *testing.T) {
	s := NewSearchService(seedBusca(t), 20, "")
	p := buscaPadrao("hello world")
	p.Fields = []models.SearchField{models.FieldTitle}
	res, err := s.Search(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, int64(1), res.Items[0].ID)
}

func TestSearch_CuringasLiterais(t *testing.T) {
	s := NewSearchService(seedBusca(t), 20, "")
	res, err := s.Search(context.Background(), buscaPadrao("100%"))
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, int64(5), res.Items[0].ID)
}

func TestSearch_PaginacaoEClamp(t *testing.T) {
	s := NewSearchService(seedBusca(t), 2, "")
	p := buscaPadrao("hello world")

	p.Paged = 2
	res, err := s.Search(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 2, res.Paged)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(1), res.Items[0].ID)

	p.Paged = 99
	res, err = s.Search(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Paged)

	p.Paged = 1
	p.PerPage = -1
	res, err = s.Search(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalPages)
	assert.Len(t, res.Items, 3)
}

func TestSearch_SemResultado(t *testing.T) {
	s := NewSearchService(seedBusca(t), 20, "")
	res, err := s.Search(context.Background(), buscaPadrao("inexistente"))
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Zero(t, res.TotalPages)
	assert.NotNil(t, res.Items)
}

func TestSearch_ErrosDoMotor(t *testing.T) {
	s := NewSearchService(seedBusca(t), 20, "")
	tests := []struct {
		name string
		mut  func(*models.SearchParams)
		msg  string
	}{
		{"frase vazia", func(p *models.SearchParams) { p.Phrase = "   " }, "Search phrase cannot be empty."},
		{"sem tipos", func(p *models.SearchParams) { p.PostTypes = nil }, "No post types specified."},
		{"sem campos", func(p *models.SearchParams) { p.Fields = nil }, "No search fields specified."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := buscaPadrao("x")
			tt.mut(&p)
			_, err := s.Search(context.Background(), p)
			var uerr *UserError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, tt.msg, uerr.Message)
		})
	}
}

type searchStoreQuebrado struct{}

func (searchStoreQuebrado) SearchCount(context.Context, string, []any) (int, error) {
	return 0, errors.New("conexão perdida")
}

func (searchStoreQuebrado) SearchPosts(context.Context, string, []any, int, int) ([]models.Post, error) {
	return nil, errors.New("conexão perdida")
}

func (searchStoreQuebrado) PostTypes(context.Context) ([]string, error) {
	return []string{"post"}, nil
}

func TestSearch_ErroDeBancoGenerico(t *testing.T) {
	_, err := NewSearchService(searchStoreQuebrado{}, 20, "").Search(context.Background(), buscaPadrao("x"))
	var uerr *UserError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "Database error occurred during search.", uerr.Message)
	assert.NotContains(t, uerr.Message, "conexão")
}

func TestNormalize(t *testing.T) {
	s := NewSearchService(seedBusca(t), 20, "")
	ctx := context.Background()

	p, err := s.Normalize(ctx, SearchRequest{
		Query:     " hello ",
		PostTypes: []string{"page", "inexistente", "page"},
		Fields:    []string{"content", "excerpt"},
		Paged:     3,
	}, SearchFormMessages)
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Phrase)
	assert.Equal(t, []string{"page"}, p.PostTypes)
	assert.Equal(t, []models.SearchField{models.FieldContent}, p.Fields)
	assert.Equal(t, 3, p.Paged)

	p, err = s.Normalize(ctx, SearchRequest{Query: "x"}, SearchFormMessages)
	require.NoError(t, err)
	assert.Equal(t, []string{"post", "page"}, p.PostTypes)
	assert.Len(t, p.Fields, 2)
}

func TestNormalize_TiposAuditadosSemLinhas(t *testing.T) {
	repo := testutil.NewRepository(t)
	testutil.SeedPost(t, repo, models.Post{ID: 1, Title: "hello"})
	s := NewSearchService(repo, 20, "")
	ctx := context.Background()

	// nenhuma página cadastrada, mas page continua sendo um tipo válido
	p, err := s.Normalize(ctx, SearchRequest{Query: "hello", PostTypes: []string{"page"}}, SearchFormMessages)
	require.NoError(t, err)
	assert.Equal(t, []string{"page"}, p.PostTypes)

	res, err := s.Search(ctx, p)
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Items)
}

func TestNormalize_Mensagens(t *testing.T) {
	s := NewSearchService(seedBusca(t), 20, "")
	ctx := context.Background()
	tests := []struct {
		name string
		req  SearchRequest
		msgs SearchMessages
		want string
	}{
		{"frase vazia", SearchRequest{Query: "  "}, SearchFormMessages, "Please enter a search term."},
		{"tipo invalido", SearchRequest{Query: "x", PostTypes: []string{"nada"}}, SearchFormMessages, "Please select at least one post type."},
		{"campo invalido", SearchRequest{Query: "x", Fields: []string{"slug"}}, SearchFormMessages, "Please select at least one search field."},
		{"export frase", SearchRequest{}, ExportFormMessages, "Invalid search query."},
		{"export tipo", SearchRequest{Query: "x", PostTypes: []string{"nada"}}, ExportFormMessages, "Invalid post types."},
		{"export campo", SearchRequest{Query: "x", Fields: []string{"slug"}}, ExportFormMessages, "Invalid search fields."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Normalize(ctx, tt.req, tt.msgs)
			var verr *ErrValidation
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Message)
		})
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "um dois", Excerpt("<p>um <b>dois</b></p><style>p{}</style>", 20))

	long := strings.Repeat("palavra ", 25)
	got := Excerpt(long, 20)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Len(t, strings.Fields(strings.TrimSuffix(got, "…")), 20)
}

func TestResultsCSV(t *testing.T) {
	out, err := ResultsCSV([]models.SearchItem{
		{ID: 2, Title: "Olá, mundo", PostType: "post", URL: "https://site.test/2", EditURL: "https://site.test/wp-admin/post.php?post=2&action=edit"},
	}, "mundo")
	require.NoError(t, err)
	assert.Equal(t, "ID,Title,Post Type,Matched Phrase,URL,Edit URL\n"+
		`2,"Olá, mundo",post,mundo,https://site.test/2,https://site.test/wp-admin/post.php?post=2&action=edit`+"\n", out)
}

func TestPostTypeLabel(t *testing.T) {
	assert.Equal(t, "Posts", PostTypeLabel("post"))
	assert.Equal(t, "Pages", PostTypeLabel("page"))
	assert.Equal(t, "product", PostTypeLabel("product"))
}
