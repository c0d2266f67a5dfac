package cmd

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/ink-kai/inkworld/handlers"
	"github.com/ink-kai/inkworld/metrics"
	"github.com/ink-kai/inkworld/watch"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the development server",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		host, _ := cmd.Flags().GetString("host")
		watching, _ := cmd.Flags().GetBool("watch")
		drafts, _ := cmd.Flags().GetBool("drafts")

		liveReload := ""
		if watching {
			liveReload = handlers.LiveReloadPath
		}
		s, err := loadSite(drafts, liveReload)
		if err != nil {
			return err
		}
		m := metrics.New()
		router, err := handlers.SetupRouter(s, m)
		if err != nil {
			return errors.Wrap(err, "error setting up router")
		}
		dev := handlers.NewDevServer(router, m, logger)
		defer dev.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		var watchDone chan error
		if watching {
			watchDone = make(chan error, 1)
			go func() {
				watchDone <- watch.Run(ctx, siteRoot, watch.Options{Logger: logger, SkipDirs: []string{"build"}}, func() {
					reload(dev, m, drafts, liveReload)
				})
			}()
		}

		srv := &http.Server{
			Addr:              net.JoinHostPort(host, port),
			Handler:           dev,
			ReadHeaderTimeout: 10 * time.Second,
		}
		serveErr := make(chan error, 1)
		go func() {
			logger.Info("Starting server", "url", "http://"+srv.Addr+s.Config.BaseURL)
			serveErr <- srv.ListenAndServe()
		}()

		select {
		case err := <-serveErr:
			return errors.Wrap(err, "server stopped")
		case err := <-watchDone:
			if err != nil {
				_ = srv.Close()
				return errors.Wrap(err, "watcher stopped")
			}
		case <-ctx.Done():
		}

		logger.Info("Shutting down server")
		dev.Close()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Server shutdown error", "error", err)
		}
		return nil
	},
}

// reload rebuilds the site and swaps it into the dev server. A broken
// edit keeps the previous site.
func reload(dev *handlers.DevServer, m *metrics.Metrics, drafts bool, liveReload string) {
	logger.Info("Change detected; reloading site")
	s, err := loadSite(drafts, liveReload)
	if err == nil {
		var router http.Handler
		router, err = handlers.SetupRouter(s, m)
		if err == nil {
			dev.Swap(router)
		}
	}
	if err != nil {
		logger.Error("Reload failed", "error", err)
	}
	m.Reloaded(err)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "3000", "Port to run the server on")
	serveCmd.Flags().String("host", "localhost", "Host to bind")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the site when files change")
	serveCmd.Flags().Bool("drafts", true, "Include draft docs and posts")
}
