package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"

	"metatag-auditor/internal/logger"
	"metatag-auditor/internal/models"
	"metatag-auditor/internal/repositories"
)

const (
	DefaultSearchPerPage = 20
	ExcerptWords         = 20
)

// SearchRequest é o que chega do formulário, antes de normalizar
type SearchRequest struct {
	Query     string   `validate:"required"`
	PostTypes []string `validate:"min=1"`
	Fields    []string `validate:"min=1"`
	Paged     int      `validate:"gte=0"`
}

// SearchMessages são as mensagens por campo (a busca e as exportações usam textos diferentes)
type SearchMessages struct {
	Query     string
	PostTypes string
	Fields    string
}

var (
	SearchFormMessages = SearchMessages{
		Query:     "Please enter a search term.",
		PostTypes: "Please select at least one post type.",
		Fields:    "Please select at least one search field.",
	}
	ExportFormMessages = SearchMessages{
		Query:     "Invalid search query.",
		PostTypes: "Invalid post types.",
		Fields:    "Invalid search fields.",
	}
)

// SearchService é o motor de busca por frase exata
type SearchService struct {
	Store    SearchStore
	PerPage  int
	AdminURL string
	validate *validator.Validate
}

func NewSearchService(store SearchStore, perPage int, adminURL string) *SearchService {
	if perPage < 1 {
		perPage = DefaultSearchPerPage
	}
	return &SearchService{Store: store, PerPage: perPage, AdminURL: adminURL, validate: validator.New()}
}

// Normalize limpa a requisição: descarta tipos inexistentes e campos fora de title/content
func (s *SearchService) Normalize(ctx context.Context, req SearchRequest, msgs SearchMessages) (models.SearchParams, error) {
	req.Query = strings.TrimSpace(req.Query)
	if len(req.PostTypes) == 0 {
		req.PostTypes = models.AuditedTypes
	}
	if len(req.Fields) == 0 {
		req.Fields = []string{string(models.FieldTitle), string(models.FieldContent)}
	}

	existentes, err := s.Store.PostTypes(ctx)
	if err != nil {
		logger.Errorf("search", "post_types", "%v", err)
		return models.SearchParams{}, &UserError{Code: "database_error", Message: "Database error occurred during search."}
	}
	// post e page existem sempre, mesmo sem nenhuma linha cadastrada
	existentes = append(existentes, models.AuditedTypes...)
	var tipos []string
	for _, t := range req.PostTypes {
		if slices.Contains(existentes, t) && !slices.Contains(tipos, t) {
			tipos = append(tipos, t)
		}
	}
	req.PostTypes = tipos

	var campos []string
	for _, f := range req.Fields {
		if (f == string(models.FieldTitle) || f == string(models.FieldContent)) && !slices.Contains(campos, f) {
			campos = append(campos, f)
		}
	}
	req.Fields = campos

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Query":
				return models.SearchParams{}, &ErrValidation{Field: "search_query", Message: msgs.Query}
			case "PostTypes":
				return models.SearchParams{}, &ErrValidation{Field: "post_types", Message: msgs.PostTypes}
			case "Fields":
				return models.SearchParams{}, &ErrValidation{Field: "search_fields", Message: msgs.Fields}
			}
		}
		return models.SearchParams{}, &ErrValidation{Field: "request", Message: err.Error()}
	}

	params := models.SearchParams{Phrase: req.Query, PostTypes: req.PostTypes, Paged: req.Paged}
	for _, f := range req.Fields {
		params.Fields = append(params.Fields, models.SearchField(f))
	}
	return params, nil
}

// Search executa a busca paginada; PerPage negativo traz tudo numa página só
func (s *SearchService) Search(ctx context.Context, p models.SearchParams) (*models.SearchResult, error) {
	p.Phrase = strings.TrimSpace(p.Phrase)
	if p.Paged < 1 {
		p.Paged = 1
	}
	perPage := p.PerPage
	if perPage == 0 {
		perPage = s.PerPage
	}

	if p.Phrase == "" {
		return nil, &UserError{Code: "empty_search", Message: "Search phrase cannot be empty."}
	}
	if len(p.PostTypes) == 0 {
		return nil, &UserError{Code: "empty_post_types", Message: "No post types specified."}
	}
	if len(p.Fields) == 0 {
		return nil, &UserError{Code: "empty_search_fields", Message: "No search fields specified."}
	}

	where, args := repositories.BuildSearchWhere(p.Phrase, p.Fields, p.PostTypes)
	total, err := s.Store.SearchCount(ctx, where, args)
	if err != nil {
		logger.Errorf("search", "count", "%v", err)
		return nil, &UserError{Code: "database_error", Message: "Database error occurred during search."}
	}
	if total == 0 {
		return &models.SearchResult{Items: []models.SearchItem{}, Paged: p.Paged}, nil
	}

	totalPages := 1
	if perPage > 0 {
		totalPages = TotalBatches(total, perPage)
	}
	paged := min(p.Paged, totalPages)

	limit, offset := 0, 0
	if perPage > 0 {
		limit, offset = perPage, (paged-1)*perPage
	}
	posts, err := s.Store.SearchPosts(ctx, where, args, limit, offset)
	if err != nil {
		logger.Errorf("search", "results", "%v", err)
		return nil, &UserError{Code: "database_error", Message: "Database error occurred during search."}
	}

	res := &models.SearchResult{Items: make([]models.SearchItem, 0, len(posts)), Total: total, TotalPages: totalPages, Paged: paged}
	for _, post := range posts {
		res.Items = append(res.Items, models.SearchItem{
			ID:            post.ID,
			Title:         post.Title,
			PostType:      post.Type,
			PostTypeLabel: PostTypeLabel(post.Type),
			URL:           post.Permalink,
			EditURL:       EditURL(s.AdminURL, post.ID),
			Excerpt:       Excerpt(post.Content, ExcerptWords),
		})
	}
	logger.Infof("search", "query", "%q: %d resultados", p.Phrase, total)
	return res, nil
}

// SearchAll traz todos os resultados, para exportar
func (s *SearchService) SearchAll(ctx context.Context, p models.SearchParams) (*models.SearchResult, error) {
	p.Paged = 1
	p.PerPage = -1
	return s.Search(ctx, p)
}

// ResultsCSV gera o CSV das exportações de busca
func ResultsCSV(items []models.SearchItem, phrase string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"ID", "Title", "Post Type", "Matched Phrase", "URL", "Edit URL"}); err != nil {
		return "", err
	}
	for _, it := range items {
		if err := w.Write([]string{strconv.FormatInt(it.ID, 10), it.Title, it.PostType, phrase, it.URL, it.EditURL}); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// PostTypeLabel é o rótulo plural do tipo de conteúdo
func PostTypeLabel(t string) string {
	switch t {
	case models.TypePost:
		return "Posts"
	case models.TypePage:
		return "Pages"
	default:
		return t
	}
}

// Excerpt tira o HTML do conteúdo e corta nas primeiras n palavras
func Excerpt(content string, n int) string {
	text := content
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		doc.Find("script, style").Remove()
		text = doc.Text()
	}
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "…"
}
