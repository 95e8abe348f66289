package models

import "time"

const (
	StatusPublish = "publish"

	TypePost = "post"
	TypePage = "page"
)

// AuditedTypes são os tipos de conteúdo que o robô audita
var AuditedTypes = []string{TypePost, TypePage}

// Post é um registro da tabela de conteúdo
type Post struct {
	ID        int64     `json:"id"`
	Type      string    `json:"post_type"`
	Status    string    `json:"post_status"`
	Title     string    `json:"post_title"`
	Content   string    `json:"post_content"`
	Slug      string    `json:"post_name"`
	Permalink string    `json:"permalink"`
	Date      time.Time `json:"post_date"`
}
