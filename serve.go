package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/geocine/bookgen/internal/compiler"
	"github.com/geocine/bookgen/internal/config"
	"github.com/geocine/bookgen/internal/server"
	"github.com/geocine/bookgen/internal/watch"
)

var (
	serveHost string
	servePort int
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build, preview and rebuild on changes",
	Long: `Build the book, render the HTML preview and serve it with live reload.

Changes to book.toml, the source directory or any extra-watch-dirs trigger
a rebuild. Open pages reload once the rebuild succeeds; a failed rebuild
is logged and the previous output stays in place.

Examples:
  bookgen serve                      # serve on localhost:3000
  bookgen serve --port 8080 --open   # custom port, open a browser`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, logger, err := loadProject()
		if err != nil {
			return err
		}
		applyServeFlags(cmd, cfg)

		rebuild := func(ctx context.Context) error {
			// Reload so edits to book.toml take effect.
			fresh, err := config.Load(projectRoot)
			if err != nil {
				return err
			}
			applyServeFlags(cmd, fresh)
			res, err := compiler.New(fresh, logger).Run(ctx)
			if err != nil {
				return err
			}
			return renderPreview(fresh, logger, res, server.LiveReloadPath)
		}

		if err := rebuild(ctx); err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}

		srv := server.New(cfg.PreviewDir(), logger)
		addr := cfg.Serve.Address()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.ListenAndServe(gctx, addr)
		})
		g.Go(func() error {
			return watch.Watch(gctx, watchOptions(cfg), logger, func(changed []string) {
				logger.Info("change detected, rebuilding", slog.Int("files", len(changed)))
				if err := rebuild(gctx); err != nil {
					logger.Error("rebuild failed", slog.String("error", err.Error()))
					return
				}
				srv.Reload()
				logger.Info("rebuilt, reload signal sent")
			})
		})

		if serveOpen {
			go func() {
				time.Sleep(300 * time.Millisecond)
				_ = openBrowser("http://" + addr)
			}()
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "hostname", "", "hostname to bind to (default from book.toml)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to serve on (default from book.toml)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the preview in a browser")
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("hostname") {
		cfg.Serve.Hostname = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Serve.Port = servePort
	}
}

// watchOptions watches the sources and leaves out everything a rebuild writes
func watchOptions(cfg *config.Config) watch.Options {
	paths := []string{filepath.Join(cfg.Root, config.FileName), cfg.SourceDir()}
	for _, dir := range cfg.Build.ExtraWatchDirs {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cfg.Root, dir)
		}
		paths = append(paths, dir)
	}
	return watch.Options{
		Paths:  paths,
		Ignore: []string{cfg.BuildDir(), cfg.PreviewDir(), cfg.SidebarPath()},
	}
}

// openBrowser attempts to open the provided URL in a browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
