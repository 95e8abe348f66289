package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"metatag-auditor/internal/models"
)

// Limites de tamanho (em caracteres)
const (
	TitleMin       = 30
	TitleMax       = 60
	DescriptionMin = 120
	DescriptionMax = 160
)

var (
	reRobots      = regexp.MustCompile(`(?i)<meta name=["']robots["'] content=["']([^"']+)["']`)
	reCanonical   = regexp.MustCompile(`(?i)<link[^>]*rel=["']canonical["'][^>]*href=["']([^"']+)["']`)
	reTitle       = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	reDescription = regexp.MustCompile(`(?i)<meta name=["']description["'] content=["']([^"']*)["']`)
	reH1          = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	reOGTitle     = regexp.MustCompile(`(?i)property=["']og:title["']`)
	reOGImage     = regexp.MustCompile(`(?i)property=["']og:image["']`)
	reTwitterCard = regexp.MustCompile(`(?i)name=["']twitter:card["']`)
)

// rule examina o HTML e devolve os problemas encontrados
type rule func(html, permalink string) []models.Issue

// regras na ordem em que aparecem no relatório
var rules = []rule{
	checkRobots,
	checkCanonical,
	checkTitle,
	checkDescription,
	checkH1,
	checkOpenGraph,
	checkTwitterCard,
}

// Analyze aplica todas as regras ao HTML de um post
func Analyze(html, permalink string) []models.Issue {
	var issues []models.Issue
	for _, r := range rules {
		issues = append(issues, r(html, permalink)...)
	}
	return issues
}

func checkRobots(html, _ string) []models.Issue {
	m := reRobots.FindStringSubmatch(html)
	if m != nil && strings.Contains(strings.ToLower(m[1]), "noindex") {
		return []models.Issue{{Type: models.IssueCritical, Text: "noindex detected"}}
	}
	return nil
}

func checkCanonical(html, permalink string) []models.Issue {
	found := reCanonical.FindAllStringSubmatch(html, -1)
	switch len(found) {
	case 0:
		return []models.Issue{{Type: models.IssueCritical, Text: "missing canonical"}}
	case 1:
		actual := strings.TrimRight(found[0][1], "/")
		if CanonicalMismatch(permalink, found[0][1]) {
			return []models.Issue{{Type: models.IssueWarning, Text: "canonical mismatch: " + actual}}
		}
		return nil
	default:
		return []models.Issue{{Type: models.IssueCritical, Text: "multiple canonicals"}}
	}
}

// CanonicalMismatch compara o canonical com o permalink ignorando a barra final
func CanonicalMismatch(permalink, canonical string) bool {
	return strings.TrimRight(canonical, "/") != strings.TrimRight(permalink, "/")
}

func checkTitle(html, _ string) []models.Issue {
	m := reTitle.FindStringSubmatch(html)
	if m == nil {
		return []models.Issue{{Type: models.IssueWarning, Text: "Missing <title> tag"}}
	}
	if issue, ok := ClassifyTitleLength(utf8.RuneCountInString(strings.TrimSpace(m[1]))); ok {
		return []models.Issue{issue}
	}
	return nil
}

func checkDescription(html, _ string) []models.Issue {
	m := reDescription.FindStringSubmatch(html)
	if m == nil {
		return []models.Issue{{Type: models.IssueWarning, Text: "Missing meta description"}}
	}
	if issue, ok := ClassifyDescriptionLength(utf8.RuneCountInString(strings.TrimSpace(m[1]))); ok {
		return []models.Issue{issue}
	}
	return nil
}

func checkH1(html, _ string) []models.Issue {
	n := len(reH1.FindAllStringIndex(html, -1))
	switch {
	case n == 0:
		return []models.Issue{{Type: models.IssueWarning, Text: "Missing H1 tag"}}
	case n > 1:
		return []models.Issue{{Type: models.IssueWarning, Text: fmt.Sprintf("Multiple H1 tags detected (%d)", n)}}
	}
	return nil
}

func checkOpenGraph(html, _ string) []models.Issue {
	var issues []models.Issue
	if !reOGTitle.MatchString(html) {
		issues = append(issues, models.Issue{Type: models.IssueInfo, Text: "Missing og:title"})
	}
	if !reOGImage.MatchString(html) {
		issues = append(issues, models.Issue{Type: models.IssueInfo, Text: "Missing og:image"})
	}
	return issues
}

func checkTwitterCard(html, _ string) []models.Issue {
	if !reTwitterCard.MatchString(html) {
		return []models.Issue{{Type: models.IssueInfo, Text: "Missing twitter:card"}}
	}
	return nil
}

// ClassifyTitleLength aplica os limites 30/60
func ClassifyTitleLength(n int) (models.Issue, bool) {
	return classifyLength("Title", n, TitleMin, TitleMax)
}

// ClassifyDescriptionLength aplica os limites 120/160
func ClassifyDescriptionLength(n int) (models.Issue, bool) {
	return classifyLength("Description", n, DescriptionMin, DescriptionMax)
}

func classifyLength(label string, n, lo, hi int) (models.Issue, bool) {
	switch {
	case n < lo:
		return models.Issue{Type: models.IssueInfo, Text: fmt.Sprintf("%s too short (%d chars)", label, n)}, true
	case n > hi:
		return models.Issue{Type: models.IssueInfo, Text: fmt.Sprintf("%s too long (%d chars)", label, n)}, true
	}
	return models.Issue{}, false
}

// ResolveFetchURL troca host/porta do permalink pelos da home quando diferem
// (banco de produção rodando em localhost, por exemplo)
func ResolveFetchURL(permalink, home string) string {
	p, err := url.Parse(permalink)
	if err != nil {
		return permalink
	}
	h, err := url.Parse(home)
	if err != nil {
		return permalink
	}
	if p.Host == "" || h.Host == "" || p.Hostname() == h.Hostname() {
		return permalink
	}

	out := h.Scheme + "://" + h.Host
	path := p.EscapedPath()
	if path == "" {
		path = "/"
	}
	out += path
	if p.RawQuery != "" {
		out += "?" + p.RawQuery
	}
	return out
}
