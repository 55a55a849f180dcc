package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/AlexZinkM/devnet-wallet/internal/api"
	"github.com/AlexZinkM/devnet-wallet/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wallet as a local JSON API",
	Long: `Serves create, fund, balance, transfer and qr under /wallet/ and the
Swagger UI under /swagger/ on PORT (default 8080). Bind it to localhost only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		router, err := api.SetupRouter(service)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              "127.0.0.1:" + config.Get().Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("listening", zap.String("addr", srv.Addr))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Info("server stopped")
		return nil
	},
}
