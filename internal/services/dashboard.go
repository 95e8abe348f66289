package services

import (
	"context"
	"fmt"
	"math"

	"metatag-auditor/internal/models"
)

// DashboardService calcula os números e a lista paginada do painel
type DashboardService struct {
	Store    AuditStore
	PerPage  int
	AdminURL string
}

func NewDashboardService(store AuditStore, perPage int, adminURL string) *DashboardService {
	if perPage < 1 {
		perPage = 10
	}
	return &DashboardService{Store: store, PerPage: perPage, AdminURL: adminURL}
}

// HealthScore é a porcentagem de posts sem problemas; sem posts é 100
func HealthScore(audited, withIssues int) int {
	if audited <= 0 {
		return 100
	}
	return int(math.Round(float64(audited-withIssues) / float64(audited) * 100))
}

// Stats conta posts, problemas e críticos a partir dos snapshots mais recentes
func (d *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	audited, err := d.Store.CountPublished(ctx, models.AuditedTypes)
	if err != nil {
		return nil, err
	}
	posts, err := d.Store.PostsWithHistory(ctx, models.AuditedTypes)
	if err != nil {
		return nil, err
	}

	st := &models.DashboardStats{TotalAudited: audited, PostsWithIssues: len(posts)}
	for _, pi := range posts {
		latest, _ := pi.History.Latest()
		for _, i := range latest.Issues {
			st.Issues++
			if i.Type == models.IssueCritical {
				st.Critical++
			}
		}
	}
	st.HealthScore = HealthScore(st.TotalAudited, st.PostsWithIssues)
	return st, nil
}

// Results devolve uma página da lista de posts com problemas
func (d *DashboardService) Results(ctx context.Context, f AuditFilter, paged int) (*models.AuditResults, error) {
	posts, err := filtered(ctx, d.Store, f)
	if err != nil {
		return nil, err
	}
	if paged < 1 {
		paged = 1
	}

	total := len(posts)
	totalPages := TotalBatches(total, d.PerPage)
	offset := (paged - 1) * d.PerPage

	out := &models.AuditResults{
		Items:      []models.AuditRow{},
		Total:      total,
		TotalPages: totalPages,
		Paged:      paged,
		Pagination: BuildPagination(paged, totalPages, PageRange),
	}
	for i := offset; i < total && i < offset+d.PerPage; i++ {
		pi := posts[i]
		latest, _ := pi.History.Latest()
		out.Items = append(out.Items, models.AuditRow{
			ID:        pi.Post.ID,
			Title:     pi.Post.Title,
			Permalink: pi.Post.Permalink,
			EditURL:   EditURL(d.AdminURL, pi.Post.ID),
			Issues:    latest.Issues,
			Time:      latest.Time,
		})
	}
	return out, nil
}

// EditURL aponta para o editor do post no painel
func EditURL(adminURL string, id int64) string {
	return fmt.Sprintf("%s/post.php?post=%d&action=edit", adminURL, id)
}
