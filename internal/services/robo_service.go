package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"metatag-auditor/internal/logger"
	"metatag-auditor/internal/models"
)

// MySQLTime é o formato das datas gravadas (mesmo do WordPress)
const MySQLTime = "2006-01-02 15:04:05"

// DefaultBatchSize é pequeno para cada requisição terminar bem antes do timeout
const DefaultBatchSize = 2

// RoboService é o robô que varre os posts publicados em lotes
type RoboService struct {
	Store     AuditStore
	Fetcher   Fetcher
	Logger    *IssueLogger
	HomeURL   string
	BatchSize int
	Location  *time.Location
	Now       func() time.Time
}

func NewRoboService(store AuditStore, fetcher Fetcher, homeURL string, batchSize, historyLimit int) *RoboService {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &RoboService{
		Store:     store,
		Fetcher:   fetcher,
		Logger:    &IssueLogger{Store: store, Limit: historyLimit},
		HomeURL:   homeURL,
		BatchSize: batchSize,
		Location:  time.Local,
		Now:       time.Now,
	}
}

func (s *RoboService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *RoboService) stamp(t time.Time) string {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(MySQLTime)
}

// TotalBatches é o número de páginas para um total de posts
func TotalBatches(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

// ScanBatch audita um lote (índice começando em 1) e atualiza o progresso
func (s *RoboService) ScanBatch(ctx context.Context, batch int) (*models.BatchResult, error) {
	if batch < 1 {
		batch = 1
	}

	total, err := s.Store.CountPublished(ctx, models.AuditedTypes)
	if err != nil {
		return nil, fmt.Errorf("erro ao contar posts: %w", err)
	}
	totalBatches := TotalBatches(total, s.BatchSize)

	posts, err := s.Store.PublishedPage(ctx, models.AuditedTypes, s.BatchSize, (batch-1)*s.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar lote %d: %w", batch, err)
	}

	res := &models.BatchResult{
		Batch:        batch,
		TotalBatches: totalBatches,
		Errors:       []string{},
	}
	for _, p := range posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.ScanPost(ctx, p); err != nil {
			logger.Warnf("robo", "scan_post", "post %d: %v", p.ID, err)
			res.Errors = append(res.Errors, fmt.Sprintf("Post %d: %s", p.ID, err.Error()))
			continue
		}
		res.Scanned++
	}

	res.HasMore = totalBatches > batch
	now := s.now()
	if res.HasMore {
		err = s.Store.SaveScanProgress(ctx, models.ScanProgress{Batch: batch, Total: totalBatches, Time: now.Unix()})
	} else {
		if err = s.Store.DeleteScanProgress(ctx); err == nil {
			err = s.Store.SetLastAuditRun(ctx, s.stamp(now))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao salvar progresso: %w", err)
	}

	logger.Infof("robo", "scan_batch", "lote %d/%d: %d auditados, %d erros", batch, totalBatches, res.Scanned, len(res.Errors))
	return res, nil
}

// ScanPost baixa a página de um post, aplica as regras e registra o resultado
func (s *RoboService) ScanPost(ctx context.Context, p models.Post) error {
	if p.Permalink == "" {
		return fmt.Errorf("post sem permalink")
	}
	urlAlvo := ResolveFetchURL(p.Permalink, s.HomeURL)

	html, err := s.Fetcher.Fetch(ctx, urlAlvo)
	if err != nil {
		return err
	}

	issues := Analyze(html, p.Permalink)
	return s.Logger.Record(ctx, p.ID, issues, s.now())
}

// Status monta o estado da varredura para o painel
func (s *RoboService) Status(ctx context.Context) (*models.ScanStatus, error) {
	progress, err := s.Store.GetScanProgress(ctx)
	if err != nil {
		return nil, err
	}
	last, err := s.Store.GetLastAuditRun(ctx)
	if err != nil {
		return nil, err
	}

	st := &models.ScanStatus{Progress: progress, LastAuditRun: last}
	if progress != nil {
		if next, ok := progress.ResumeBatch(); ok {
			st.ResumeBatch = next
			st.Percent = int(math.Round(float64(next) / float64(progress.Total) * 100))
		}
	}
	return st, nil
}
