package models

import "time"

// ScanProgress é o registro singleton que permite retomar uma varredura
type ScanProgress struct {
	Batch int   `json:"batch"`
	Total int   `json:"total"`
	Time  int64 `json:"time"`
}

// ResumeBatch devolve o próximo lote a processar, se ainda houver
func (p ScanProgress) ResumeBatch() (int, bool) {
	next := p.Batch + 1
	if p.Total <= 0 || next > p.Total {
		return 0, false
	}
	return next, true
}

// BatchResult é a resposta de mta_scan_batch
type BatchResult struct {
	Scanned      int      `json:"scanned"`
	Batch        int      `json:"batch"`
	TotalBatches int      `json:"total_batches"`
	HasMore      bool     `json:"has_more"`
	Errors       []string `json:"errors"`
}

// ScanStatus resume o estado da varredura para o painel
type ScanStatus struct {
	Progress      *ScanProgress `json:"progress"`
	ResumeBatch   int           `json:"resume_batch,omitempty"`
	Percent       int           `json:"percent,omitempty"`
	LastAuditRun  string        `json:"last_audit_run,omitempty"`
	Running       bool          `json:"running"`
	RunID         string        `json:"run_id,omitempty"`
	LastRunError  string        `json:"last_run_error,omitempty"`
	LastRunFinish *time.Time    `json:"last_run_finished,omitempty"`
}

// DashboardStats são os números do topo do painel
type DashboardStats struct {
	HealthScore     int `json:"health_score"`
	TotalAudited    int `json:"total_audited"`
	PostsWithIssues int `json:"posts_with_issues"`
	Issues          int `json:"issues"`
	Critical        int `json:"critical"`
}
