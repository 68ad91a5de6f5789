package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/axellelanca/linkshortener/cmd"
	"github.com/axellelanca/linkshortener/internal/api"
	"github.com/axellelanca/linkshortener/internal/monitor"
)

const shutdownTimeout = 10 * time.Second

// RunServerCmd représente la commande 'run-server' de Cobra.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Lance le serveur API de raccourcissement d'URLs et les processus de fond.",
	Long: `Cette commande se connecte au store, démarre les workers de clics
et le moniteur d'URLs si activé, puis lance le serveur HTTP.`,
	RunE: func(c *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, log := cmd.Cfg, cmd.Logger
		app, err := cmd.NewApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(); err != nil {
				log.WithError(err).Error("closing store")
			}
		}()
		log.Infof("Click workers started: buffer=%d workers=%d", cfg.Analytics.BufferSize, cfg.Analytics.WorkerCount)

		if cfg.Monitor.Enabled {
			urlMonitor := monitor.NewUrlMonitor(app.Links, cfg.MonitorInterval(), log)
			go urlMonitor.Start(ctx)
		}

		if log.GetLevel() < logrus.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}
		router := api.NewRouter(log)
		api.SetupRoutes(router, app.LinkService, cfg.Server.BaseURL, log)

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Infof("Démarrage du serveur sur %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}

		log.Info("Signal d'arrêt reçu. Arrêt du serveur...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		// app.Close drains pending clicks before the store goes away
		log.Info("Serveur arrêté proprement.")
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
