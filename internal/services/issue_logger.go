package services

import (
	"context"
	"time"

	"metatag-auditor/internal/models"
)

// DefaultHistoryLimit é quantos snapshots guardamos por post
const DefaultHistoryLimit = 5

// PrependSnapshot coloca o snapshot na frente e corta no limite
func PrependSnapshot(h models.History, s models.Snapshot, limit int) models.History {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	out := make(models.History, 0, len(h)+1)
	out = append(out, s)
	out = append(out, h...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// IssueLogger mantém o histórico limitado de cada post
type IssueLogger struct {
	Store HistoryStore
	Limit int
}

// Record grava o snapshot; sem problemas, o post está limpo e o histórico some
func (l *IssueLogger) Record(ctx context.Context, postID int64, issues []models.Issue, when time.Time) error {
	if len(issues) == 0 {
		return l.Store.DeleteHistory(ctx, postID)
	}

	existing, err := l.Store.GetHistory(ctx, postID)
	if err != nil {
		return err
	}
	h := PrependSnapshot(existing, models.Snapshot{Time: when, Issues: issues}, l.Limit)
	return l.Store.SaveHistory(ctx, postID, h)
}
