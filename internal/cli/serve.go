package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryan-buckman/quill/internal/database"
	"github.com/bryan-buckman/quill/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the blog on the configured address",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			srvCfg, err := cfg.ServerOrErr()
			if err != nil {
				return err
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()
			sugar := logger.Sugar()

			store, err := database.Open(srvCfg.DB)
			if err != nil {
				return err
			}
			defer store.Close()

			s, err := server.New(store, srvCfg, sugar)
			if err != nil {
				return err
			}

			httpServer := &http.Server{
				Addr:    srvCfg.Addr,
				Handler: s.Router(),
			}
			errc := make(chan error, 1)
			go func() {
				sugar.Infow("server starting", "addr", srvCfg.Addr, "backend", store.DatabaseType())
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			select {
			case err := <-errc:
				return err
			case <-quit:
			}
			sugar.Infow("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(ctx)
		},
	}
}
