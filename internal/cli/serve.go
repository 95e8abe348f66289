package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"metatag-auditor/internal/logger"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Sobe a API HTTP e o agendador da auditoria completa",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			g, gCtx := errgroup.WithContext(ctx)

			var c *cron.Cron
			if cfg.Audit.Schedule != "" {
				c = cron.New()
				if _, err := a.full.Schedule(gCtx, c, cfg.Audit.Schedule); err != nil {
					return fmt.Errorf("agenda inválida %q: %w", cfg.Audit.Schedule, err)
				}
			}

			srv := &http.Server{
				Addr:              ":" + cfg.Server.Port,
				Handler:           a.router(gCtx),
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext:       func(net.Listener) context.Context { return gCtx },
			}

			g.Go(func() error {
				logger.Infof("serve", "listen", "rodando na porta %s", cfg.Server.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gCtx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			if c != nil {
				c.Start()
				logger.Infof("serve", "cron", "auditoria completa agendada: %s", cfg.Audit.Schedule)
				g.Go(func() error {
					<-gCtx.Done()
					<-c.Stop().Done()
					return nil
				})
			}

			return g.Wait()
		},
	}

	cmd.Flags().String("port", "", "porta HTTP")
	cmd.Flags().String("schedule", "", "agenda cron da auditoria completa (ex.: @daily)")
	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("audit.schedule", cmd.Flags().Lookup("schedule"))
	return cmd
}
