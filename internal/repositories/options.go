package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"metatag-auditor/internal/models"
)

const (
	OptionScanProgress = "mta_scan_progress"
	OptionLastAuditRun = "mta_last_audit_run"
)

// GetOption lê uma opção; ok=false quando não existe
func (r *Repository) GetOption(ctx context.Context, name string) (string, bool, error) {
	var v string
	err := r.queryRow(ctx, "SELECT option_value FROM options WHERE option_name = ?", name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("erro ao ler opção %s: %w", name, err)
	}
	return v, true, nil
}

// SetOption grava (ou sobrescreve) uma opção
func (r *Repository) SetOption(ctx context.Context, name, value string) error {
	_, err := r.exec(ctx, `INSERT INTO options (option_name, option_value) VALUES (?, ?)
		ON CONFLICT (option_name) DO UPDATE SET option_value = excluded.option_value`, name, value)
	if err != nil {
		return fmt.Errorf("erro ao gravar opção %s: %w", name, err)
	}
	return nil
}

// DeleteOption remove uma opção
func (r *Repository) DeleteOption(ctx context.Context, name string) error {
	if _, err := r.exec(ctx, "DELETE FROM options WHERE option_name = ?", name); err != nil {
		return fmt.Errorf("erro ao apagar opção %s: %w", name, err)
	}
	return nil
}

// GetScanProgress lê o registro de progresso; nil quando não há varredura pendente
func (r *Repository) GetScanProgress(ctx context.Context) (*models.ScanProgress, error) {
	raw, ok, err := r.GetOption(ctx, OptionScanProgress)
	if err != nil || !ok {
		return nil, err
	}
	var p models.ScanProgress
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, nil
	}
	return &p, nil
}

func (r *Repository) SaveScanProgress(ctx context.Context, p models.ScanProgress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.SetOption(ctx, OptionScanProgress, string(data))
}

func (r *Repository) DeleteScanProgress(ctx context.Context) error {
	return r.DeleteOption(ctx, OptionScanProgress)
}

func (r *Repository) SetLastAuditRun(ctx context.Context, when string) error {
	return r.SetOption(ctx, OptionLastAuditRun, when)
}

func (r *Repository) GetLastAuditRun(ctx context.Context) (string, error) {
	v, _, err := r.GetOption(ctx, OptionLastAuditRun)
	return v, err
}
