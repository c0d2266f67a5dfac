package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ink-kai/inkworld/site"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	siteRoot string
	verbose  bool
	logger   = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "inkworld",
	Short: "Inkworld - documentation sites from Markdown",
	Long: `Inkworld builds a documentation website with docs, a blog and custom pages
from a directory of Markdown files, YAML configuration and translations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Wrap(err, "error loading .env")
		}
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func loadSite(includeDrafts bool, liveReload string) (*site.Site, error) {
	return site.Load(siteRoot, site.Options{
		Logger:        logger,
		IncludeDrafts: includeDrafts,
		LiveReload:    liveReload,
	})
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&siteRoot, "root", "r", "website", "Site root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
