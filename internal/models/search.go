package models

// SearchField é uma coluna pesquisável
type SearchField string

const (
	FieldTitle   SearchField = "title"
	FieldContent SearchField = "content"
)

// SearchParams são os parâmetros do motor de busca
type SearchParams struct {
	Phrase    string
	PostTypes []string
	Fields    []SearchField
	Paged     int
	// PerPage: 0 usa o padrão, negativo traz tudo
	PerPage int
}

// SearchItem é uma linha do resultado
type SearchItem struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	PostType      string `json:"post_type"`
	PostTypeLabel string `json:"post_type_label"`
	URL           string `json:"url"`
	EditURL       string `json:"edit_url"`
	Excerpt       string `json:"excerpt"`
}

// SearchResult é a página de resultados
type SearchResult struct {
	Items      []SearchItem `json:"items"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
	Paged      int          `json:"paged"`
}

// PageLink é um item da paginação; Page zero com Ellipsis indica "..."
type PageLink struct {
	Page     int  `json:"page,omitempty"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// Pagination descreve os controles de navegação
type Pagination struct {
	Current int        `json:"current"`
	Total   int        `json:"total"`
	Prev    int        `json:"prev,omitempty"`
	Next    int        `json:"next,omitempty"`
	Links   []PageLink `json:"links"`
}
