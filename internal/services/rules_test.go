package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metatag-auditor/internal/models"
)

const permalinkTeste = "https://site.test/hello"

// paginaBoa monta um HTML que passa em todas as regras; as opções trocam pedaços
func paginaBoa(troca map[string]string) string {
	partes := map[string]string{
		"robots":      `<meta name="robots" content="index, follow">`,
		"canonical":   `<link rel="canonical" href="https://site.test/hello/">`,
		"title":       `<title>A perfectly sized title for the page here</title>`,
		"description": fmt.Sprintf(`<meta name="description" content="%s">`, strings.Repeat("d", 140)),
		"og":          `<meta property="og:title" content="x"><meta property="og:image" content="x.png">`,
		"twitter":     `<meta name="twitter:card" content="summary">`,
		"h1":          `<h1>Olá</h1>`,
	}
	for k, v := range troca {
		partes[k] = v
	}
	return "<html><head>" + partes["robots"] + partes["canonical"] + partes["title"] +
		partes["description"] + partes["og"] + partes["twitter"] + "</head><body>" + partes["h1"] + "</body></html>"
}

func TestAnalyze_PaginaLimpa(t *testing.T) {
	assert.Empty(t, Analyze(paginaBoa(nil), permalinkTeste))
}

func TestAnalyze_PaginaVaziaNaOrdemDasRegras(t *testing.T) {
	issues := Analyze("<html></html>", permalinkTeste)
	expected := []models.Issue{
		{Type: models.IssueCritical, Text: "missing canonical"},
		{Type: models.IssueWarning, Text: "Missing <title> tag"},
		{Type: models.IssueWarning, Text: "Missing meta description"},
		{Type: models.IssueWarning, Text: "Missing H1 tag"},
		{Type: models.IssueInfo, Text: "Missing og:title"},
		{Type: models.IssueInfo, Text: "Missing og:image"},
		{Type: models.IssueInfo, Text: "Missing twitter:card"},
	}
	assert.Equal(t, expected, issues)
}

func TestAnalyze_Regras(t *testing.T) {
	tests := []struct {
		name  string
		troca map[string]string
		want  models.Issue
	}{
		{"noindex", map[string]string{"robots": `<meta name="robots" content="NOINDEX, follow">`},
			models.Issue{Type: models.IssueCritical, Text: "noindex detected"}},
		{"canonicals multiplos", map[string]string{"canonical": `<link rel="canonical" href="https://site.test/hello"><link rel="canonical" href="https://site.test/b">`},
			models.Issue{Type: models.IssueCritical, Text: "multiple canonicals"}},
		{"canonical divergente", map[string]string{"canonical": `<link rel="canonical" href="https://site.test/outro/">`},
			models.Issue{Type: models.IssueWarning, Text: "canonical mismatch: https://site.test/outro"}},
		{"titulo curto", map[string]string{"title": `<title> Curto </title>`},
			models.Issue{Type: models.IssueInfo, Text: "Title too short (5 chars)"}},
		{"titulo longo", map[string]string{"title": "<title>" + strings.Repeat("t", 61) + "</title>"},
			models.Issue{Type: models.IssueInfo, Text: "Title too long (61 chars)"}},
		{"descricao curta", map[string]string{"description": `<meta name="description" content="">`},
			models.Issue{Type: models.IssueInfo, Text: "Description too short (0 chars)"}},
		{"h1 multiplos", map[string]string{"h1": "<h1>a</h1><H1 class=\"x\">b</H1>"},
			models.Issue{Type: models.IssueWarning, Text: "Multiple H1 tags detected (2)"}},
		{"sem og:image", map[string]string{"og": `<meta property="og:title" content="x">`},
			models.Issue{Type: models.IssueInfo, Text: "Missing og:image"}},
		{"sem twitter", map[string]string{"twitter": ""},
			models.Issue{Type: models.IssueInfo, Text: "Missing twitter:card"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Analyze(paginaBoa(tt.troca), permalinkTeste)
			require.Len(t, issues, 1)
			assert.Equal(t, tt.want, issues[0])
		})
	}
}

func TestAnalyze_TituloContaRunas(t *testing.T) {
	// 30 caracteres japoneses não é curto, mesmo ocupando 90 bytes
	html := paginaBoa(map[string]string{"title": "<title>" + strings.Repeat("日", 30) + "</title>"})
	assert.Empty(t, Analyze(html, permalinkTeste))
}

func TestClassifyLength_Limites(t *testing.T) {
	for n, want := range map[int]bool{29: true, 30: false, 60: false, 61: true} {
		_, ok := ClassifyTitleLength(n)
		assert.Equal(t, want, ok, "title %d", n)
	}
	for n, want := range map[int]bool{119: true, 120: false, 160: false, 161: true} {
		_, ok := ClassifyDescriptionLength(n)
		assert.Equal(t, want, ok, "description %d", n)
	}
}

func TestCanonicalMismatch_IgnoraBarraFinal(t *testing.T) {
	assert.False(t, CanonicalMismatch("https://a.test/x/", "https://a.test/x"))
	assert.False(t, CanonicalMismatch("https://a.test/x", "https://a.test/x///"))
	assert.True(t, CanonicalMismatch("https://a.test/x", "https://a.test/y"))
}

func TestResolveFetchURL(t *testing.T) {
	tests := []struct {
		name, permalink, home, want string
	}{
		{"mesmo host", "https://site.test/a/", "https://site.test", "https://site.test/a/"},
		{"porta diferente mantém", "http://site.test:8080/a", "https://site.test", "http://site.test:8080/a"},
		{"troca host", "http://localhost:8000/blog/post-1/?p=1", "https://example.com/blog", "https://example.com/blog/post-1/?p=1"},
		{"sem caminho", "http://localhost", "https://example.com:8443", "https://example.com:8443/"},
		{"relativo", "/so-caminho", "https://example.com", "/so-caminho"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveFetchURL(tt.permalink, tt.home))
		})
	}
}
