package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geocine/bookgen/internal/decorate"
)

var (
	decorateLineHeight int
	decorateCodeClass  string
)

var decorateCmd = &cobra.Command{
	Use:   "decorate <dir>",
	Short: "Resolve sentinels and line highlights in rendered HTML",
	Long: `Apply the page-load decorations to every .html file under a directory of
rendered pages, such as the site generator's build output.

Each page gets chapter-number and subtopic sentinels replaced with the
numbers of the headings that follow them, and an overlay element for every
line range named in a code block's {3,5-7} class. Pages already decorated
are left unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadProject()
		if err != nil {
			return err
		}

		opts := decorate.Options{
			LineHeight: cfg.Decorate.LineHeight,
			CodeClass:  cfg.Decorate.CodeClass,
		}
		if cmd.Flags().Changed("line-height") {
			opts.LineHeight = decorateLineHeight
		}
		if cmd.Flags().Changed("code-class") {
			opts.CodeClass = decorateCodeClass
		}

		res, err := decorate.Dir(cmd.Context(), args[0], opts, cfg.Build.Workers, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Decorated %d of %d pages in %s\n", res.Rewritten, res.Pages, args[0])
		if res.Unresolved > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Pages with unresolved sentinels: %d (see log)\n", res.Unresolved)
		}
		return nil
	},
}

func init() {
	decorateCmd.Flags().IntVar(&decorateLineHeight, "line-height", decorate.DefaultLineHeight, "pixel height of one code line")
	decorateCmd.Flags().StringVar(&decorateCodeClass, "code-class", decorate.DefaultCodeClass, "class marking highlightable code elements")
}
