package services

import (
	"context"

	"metatag-auditor/internal/models"
)

// PostStore lista os posts publicados
type PostStore interface {
	CountPublished(ctx context.Context, types []string) (int, error)
	PublishedPage(ctx context.Context, types []string, limit, offset int) ([]models.Post, error)
}

// HistoryStore guarda o histórico de auditoria de cada post
type HistoryStore interface {
	GetHistory(ctx context.Context, postID int64) (models.History, error)
	SaveHistory(ctx context.Context, postID int64, h models.History) error
	DeleteHistory(ctx context.Context, postID int64) error
	PostsWithHistory(ctx context.Context, types []string) ([]models.PostIssues, error)
}

// ProgressStore guarda o progresso da varredura e a última execução
type ProgressStore interface {
	GetScanProgress(ctx context.Context) (*models.ScanProgress, error)
	SaveScanProgress(ctx context.Context, p models.ScanProgress) error
	DeleteScanProgress(ctx context.Context) error
	SetLastAuditRun(ctx context.Context, when string) error
	GetLastAuditRun(ctx context.Context) (string, error)
}

// AuditStore é tudo que o robô precisa do banco
type AuditStore interface {
	PostStore
	HistoryStore
	ProgressStore
}

// SearchStore executa a busca por frase
type SearchStore interface {
	SearchCount(ctx context.Context, where string, args []any) (int, error)
	SearchPosts(ctx context.Context, where string, args []any, limit, offset int) ([]models.Post, error)
	PostTypes(ctx context.Context) ([]string, error)
}

// UserStore autentica e cria usuários
type UserStore interface {
	CriarUsuario(ctx context.Context, username, senha string, isAdmin bool) (*models.User, error)
	BuscarUsuarioLogin(ctx context.Context, username, senha string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// DiagnosticStore responde o diagnóstico do banco
type DiagnosticStore interface {
	Ping(ctx context.Context) error
	CountPublished(ctx context.Context, types []string) (int, error)
}
