package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"metatag-auditor/internal/models"
	"metatag-auditor/internal/repositories"
	"metatag-auditor/internal/testutil"
)

// fakeFetcher devolve HTML fixo por URL e anota as chamadas
type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	errs    map[string]error
	calls   []string
	release chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	if html, ok := f.pages[url]; ok {
		return html, nil
	}
	return "<html></html>", nil
}

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// seedSite grava n posts publicados com permalink https://site.test/p<id>
func seedSite(t *testing.T, n int) *repositories.Repository {
	t.Helper()
	repo := testutil.NewRepository(t)
	for i := 1; i <= n; i++ {
		testutil.SeedPost(t, repo, models.Post{
			ID:        int64(i),
			Title:     "Post",
			Permalink: permalinkDe(int64(i)),
		})
	}
	return repo
}

func permalinkDe(id int64) string {
	return fmt.Sprintf("https://site.test/p%d", id)
}
