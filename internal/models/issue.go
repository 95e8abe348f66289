package models

import "time"

// IssueType classifica a gravidade de um problema de SEO
type IssueType string

const (
	IssueCritical IssueType = "critical"
	IssueWarning  IssueType = "warning"
	IssueInfo     IssueType = "info"
)

// Issue representa um problema encontrado na página
type Issue struct {
	Type IssueType `json:"type"`
	Text string    `json:"text"`
}

// Snapshot é uma auditoria de um post em um instante
type Snapshot struct {
	Time   time.Time `json:"time"`
	Issues []Issue   `json:"issues"`
}

// History guarda os snapshots de um post, o mais recente primeiro
type History []Snapshot

// Latest devolve o snapshot mais recente
func (h History) Latest() (Snapshot, bool) {
	if len(h) == 0 {
		return Snapshot{}, false
	}
	return h[0], true
}

// PostIssues junta um post com o histórico dele
type PostIssues struct {
	Post    Post    `json:"post"`
	History History `json:"history"`
}

// AuditRow é uma linha da lista do painel
type AuditRow struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Permalink string    `json:"permalink"`
	EditURL   string    `json:"edit_url"`
	Issues    []Issue   `json:"issues"`
	Time      time.Time `json:"time"`
}

// AuditResults é a página de resultados do painel
type AuditResults struct {
	Items      []AuditRow `json:"items"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
	Paged      int        `json:"paged"`
	Pagination Pagination `json:"pagination"`
}
