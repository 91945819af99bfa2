package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/geocine/bookgen/internal/compiler"
	"github.com/geocine/bookgen/internal/config"
	"github.com/geocine/bookgen/internal/renderer"
)

var (
	projectRoot string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "bookgen",
	Short: "Compile a folder of Markdown chapters into a numbered book",
	Long: `bookgen compiles a manifest-ordered folder of Markdown chapters into a
documentation site source tree.

Every run:
  - numbers chapters, sections and subsections
  - writes each chapter with front matter and numbered headings
  - expands the table-of-contents placeholder on the front page
  - writes the sidebar definition for the site generator`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectRoot, "root", "r", ".", "project directory containing book.toml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(buildCmd, serveCmd, decorateCmd, initCmd, cleanCmd, versionCmd)
}

// loadProject reads the configuration for the selected project root and
// builds the logger from it.
func loadProject() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, nil, err
	}
	return cfg, newLogger(cfg), nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Log.Level
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// renderPreview renders a finished compiler run to the preview directory
func renderPreview(cfg *config.Config, logger *slog.Logger, res *compiler.Result, liveReload string) error {
	r := renderer.NewHtmlRenderer(cfg)
	return r.Render(&renderer.RenderContext{
		DestDir:                cfg.PreviewDir(),
		SourceDir:              cfg.SourceDir(),
		Book:                   res.Book,
		FrontPage:              res.FrontPage,
		Config:                 cfg,
		LiveReloadEndpointPath: liveReload,
		AssetsFS:               embeddedFrontend,
		Logger:                 logger,
	})
}
