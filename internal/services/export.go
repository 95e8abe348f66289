package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"metatag-auditor/internal/models"
)

// utf8BOM mantém acentos e japonês legíveis no Excel
const utf8BOM = "\xEF\xBB\xBF"

// AuditFilter são os filtros do painel e das exportações
type AuditFilter struct {
	Issue    string
	PostType string
}

// Types devolve os tipos a consultar
func (f AuditFilter) Types() []string {
	if f.PostType != "" {
		return []string{f.PostType}
	}
	return models.AuditedTypes
}

// MatchesIssueFilter diz se algum problema do snapshot contém o filtro (sem diferenciar maiúsculas)
func MatchesIssueFilter(s models.Snapshot, filter string) bool {
	if filter == "" {
		return true
	}
	needle := strings.ToLower(filter)
	for _, i := range s.Issues {
		if strings.Contains(strings.ToLower(i.Text), needle) {
			return true
		}
	}
	return false
}

// ExportService gera as exportações CSV e TXT
type ExportService struct {
	Store    HistoryStore
	HomeURL  string
	Location *time.Location
	Now      func() time.Time
}

func NewExportService(store HistoryStore, homeURL string, loc *time.Location) *ExportService {
	return &ExportService{Store: store, HomeURL: homeURL, Location: loc, Now: time.Now}
}

func (e *ExportService) loc() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

// filtered devolve os posts com histórico que passam no filtro, olhando só o snapshot mais recente
func filtered(ctx context.Context, store HistoryStore, f AuditFilter) ([]models.PostIssues, error) {
	all, err := store.PostsWithHistory(ctx, f.Types())
	if err != nil {
		return nil, err
	}
	var out []models.PostIssues
	for _, pi := range all {
		latest, ok := pi.History.Latest()
		if !ok || !MatchesIssueFilter(latest, f.Issue) {
			continue
		}
		out = append(out, pi)
	}
	return out, nil
}

// WriteCSV escreve uma linha por problema do snapshot mais recente
func (e *ExportService) WriteCSV(ctx context.Context, w io.Writer, f AuditFilter) error {
	posts, err := filtered(ctx, e.Store, f)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Title", "Post URL", "Issue Type", "Issue Text", "Audit Date"}); err != nil {
		return err
	}
	for _, pi := range posts {
		latest, _ := pi.History.Latest()
		when := latest.Time.In(e.loc()).Format(MySQLTime)
		for _, i := range latest.Issues {
			row := []string{
				strconv.FormatInt(pi.Post.ID, 10),
				pi.Post.Title,
				pi.Post.Permalink,
				string(i.Type),
				i.Text,
				when,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteIDs escreve os ids com histórico separados por vírgula
func (e *ExportService) WriteIDs(ctx context.Context, w io.Writer, f AuditFilter) error {
	posts, err := e.Store.PostsWithHistory(ctx, f.Types())
	if err != nil {
		return err
	}
	ids := make([]string, len(posts))
	for i, pi := range posts {
		ids[i] = strconv.FormatInt(pi.Post.ID, 10)
	}
	_, err = io.WriteString(w, strings.Join(ids, ","))
	return err
}

func (e *ExportService) dateSuffix() string {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return now().In(e.loc()).Format("02-01-2006")
}

// CSVFilename é meta_audit_<slug>_<dd-mm-aaaa>.csv
func (e *ExportService) CSVFilename() string {
	return fmt.Sprintf("meta_audit_%s_%s.csv", SiteSlug(e.HomeURL), e.dateSuffix())
}

// IDsFilename é post_ids_<slug>_<dd-mm-aaaa>.txt
func (e *ExportService) IDsFilename() string {
	return fmt.Sprintf("post_ids_%s_%s.txt", SiteSlug(e.HomeURL), e.dateSuffix())
}

var reNaoAlfanumerico = regexp.MustCompile(`[^a-z0-9_]+`)

// SiteSlug usa o primeiro segmento do caminho da home, ou "root"
func SiteSlug(home string) string {
	u, err := url.Parse(home)
	if err != nil {
		return "root"
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "root"
	}
	first := strings.ToLower(strings.Split(path, "/")[0])
	slug := strings.Trim(reNaoAlfanumerico.ReplaceAllString(first, "-"), "-")
	if slug == "" {
		return "root"
	}
	return slug
}
