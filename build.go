package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geocine/bookgen/internal/compiler"
)

var (
	buildDestDir string
	buildPreview bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the book",
	Long: `Compile the book into the build directory.

The build directory is emptied first, then every chapter, the front page
and the sidebar definition are written. Input errors such as a chapter
listed in the manifest but missing on disk stop the run before anything
is deleted.

Examples:
  bookgen build                   # build into build-dir from book.toml
  bookgen build --dest-dir out    # build into ./out
  bookgen build --preview         # also render the HTML preview`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadProject()
		if err != nil {
			return err
		}
		if buildDestDir != "" {
			cfg.Build.BuildDir = buildDestDir
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Building book: %s\n", cfg.Book.Title)
		res, err := compiler.New(cfg, logger).Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Chapters: %d, files written: %d\n", len(res.Book.Chapters), len(res.Written))
		if len(res.Skipped) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped: %v\n", res.Skipped)
		}
		if len(res.Anomalies) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Numbering anomalies: %d (see log)\n", len(res.Anomalies))
		}

		if buildPreview {
			if err := renderPreview(cfg, logger, res, ""); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preview rendered to %s\n", cfg.PreviewDir())
		}

		if len(res.Failed) > 0 {
			return fmt.Errorf("%d output files could not be written", len(res.Failed))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Book built successfully to %s!\n", cfg.BuildDir())
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildDestDir, "dest-dir", "d", "", "output directory relative to the project root (overrides build-dir)")
	buildCmd.Flags().BoolVar(&buildPreview, "preview", false, "also render the HTML preview")
}
