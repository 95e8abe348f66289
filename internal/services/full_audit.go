package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"metatag-auditor/internal/logger"
	"metatag-auditor/internal/models"
)

// ErrAuditRunning impede duas auditorias completas ao mesmo tempo no processo
var ErrAuditRunning = errors.New("auditoria completa já está em andamento")

// FullAudit percorre todos os lotes no servidor, retomando do progresso salvo
type FullAudit struct {
	Robo *RoboService

	mu         sync.Mutex
	running    bool
	runID      string
	lastErr    error
	lastFinish time.Time
}

func NewFullAudit(robo *RoboService) *FullAudit {
	return &FullAudit{Robo: robo}
}

func (f *FullAudit) begin() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		return "", ErrAuditRunning
	}
	f.running = true
	f.runID = uuid.NewString()
	return f.runID, nil
}

func (f *FullAudit) finish(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
	f.lastErr = err
	f.lastFinish = time.Now()
}

// Run executa a auditoria completa e só volta quando termina
func (f *FullAudit) Run(ctx context.Context) (string, error) {
	id, err := f.begin()
	if err != nil {
		return "", err
	}
	err = f.loop(ctx, id)
	f.finish(err)
	return id, err
}

// Start dispara a auditoria em segundo plano e devolve o id da execução
func (f *FullAudit) Start(ctx context.Context) (string, error) {
	id, err := f.begin()
	if err != nil {
		return "", err
	}
	go func() {
		f.finish(f.loop(ctx, id))
	}()
	return id, nil
}

func (f *FullAudit) loop(ctx context.Context, id string) error {
	batch := 1
	progress, err := f.Robo.Store.GetScanProgress(ctx)
	if err != nil {
		return err
	}
	if progress != nil {
		if next, ok := progress.ResumeBatch(); ok {
			batch = next
		}
	}
	logger.Infof("full_audit", "start", "execução %s a partir do lote %d", id, batch)

	for {
		res, err := f.Robo.ScanBatch(ctx, batch)
		if err != nil {
			logger.Errorf("full_audit", "batch", "execução %s parou no lote %d: %v", id, batch, err)
			return fmt.Errorf("lote %d: %w", batch, err)
		}
		if !res.HasMore {
			break
		}
		batch++
	}
	logger.Infof("full_audit", "done", "execução %s concluída", id)
	return nil
}

// Fill completa o status com o estado da execução em segundo plano
func (f *FullAudit) Fill(st *models.ScanStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st.Running = f.running
	st.RunID = f.runID
	if f.lastErr != nil {
		st.LastRunError = f.lastErr.Error()
	}
	if !f.lastFinish.IsZero() {
		t := f.lastFinish
		st.LastRunFinish = &t
	}
}

// Schedule agenda a auditoria completa no cron; execução em andamento é pulada
func (f *FullAudit) Schedule(ctx context.Context, c *cron.Cron, agenda string) (cron.EntryID, error) {
	return c.AddFunc(agenda, func() {
		if _, err := f.Run(ctx); err != nil {
			if errors.Is(err, ErrAuditRunning) {
				logger.Info("full_audit", "cron", "execução anterior ainda em andamento, pulando")
				return
			}
			logger.Errorf("full_audit", "cron", "falha na auditoria agendada: %v", err)
		}
	})
}
