package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"metatag-auditor/internal/config"
	"metatag-auditor/internal/handlers"
	"metatag-auditor/internal/logger"
	"metatag-auditor/internal/repositories"
	"metatag-auditor/internal/services"
)

// app liga as camadas: repositório -> serviços -> handlers
type app struct {
	cfg       *config.Config
	repo      *repositories.Repository
	fetcher   services.Fetcher
	robo      *services.RoboService
	full      *services.FullAudit
	dashboard *services.DashboardService
	export    *services.ExportService
	search    *services.SearchService
	auth      *services.AuthService
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	repo, err := repositories.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := repo.InicializarTabelas(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("falha ao inicializar banco de dados: %w", err)
	}
	if cfg.Auth.AdminUser != "" && cfg.Auth.AdminPassword != "" {
		if err := repo.GarantirAdmin(ctx, cfg.Auth.AdminUser, cfg.Auth.AdminPassword); err != nil {
			repo.Close()
			return nil, err
		}
	}

	loc := cfg.Location()
	a := cfg.Audit
	fetcher := services.NewFetcher(a.Renderer, a.FetchTimeout, a.UserAgent, a.RangeBytes, a.MaxBodyBytes)

	robo := services.NewRoboService(repo, fetcher, cfg.Site.HomeURL, a.BatchSize, a.HistoryLimit)
	robo.Location = loc

	logger.Infof("app", "init", "banco %s, renderizador %s, lote %d", cfg.Database.Driver, a.Renderer, a.BatchSize)
	return &app{
		cfg:       cfg,
		repo:      repo,
		fetcher:   fetcher,
		robo:      robo,
		full:      services.NewFullAudit(robo),
		dashboard: services.NewDashboardService(repo, a.ResultsPerPage, cfg.Site.AdminURL),
		export:    services.NewExportService(repo, cfg.Site.HomeURL, loc),
		search:    services.NewSearchService(repo, cfg.Search.PerPage, cfg.Site.AdminURL),
		auth:      services.NewAuthService(repo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.NonceTTL),
	}, nil
}

func (a *app) Close() error {
	// o renderizador headless mantém um Chrome aberto entre as páginas
	if c, ok := a.fetcher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warnf("app", "close", "falha ao encerrar o navegador: %v", err)
		}
	}
	return a.repo.Close()
}

// router monta as rotas HTTP; baseCtx é o contexto do servidor
func (a *app) router(baseCtx context.Context) http.Handler {
	return handlers.NewRouter(a.auth, handlers.Deps{
		Auth:      handlers.NewAuthHandler(a.auth),
		Auditoria: handlers.NewAuditoriaHandler(a.robo, a.full, baseCtx),
		Relatorio: handlers.NewRelatorioHandler(a.dashboard, a.export),
		Busca:     handlers.NewBuscaHandler(a.search, a.repo, a.cfg.Database.Driver),
	})
}
