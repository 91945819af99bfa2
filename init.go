package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geocine/bookgen/internal/cli"
)

var (
	initTitle         string
	initSrc           string
	initBuildDir      string
	initCreateMissing bool
	initYes           bool
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a new book",
	Long: `Create a new book directory with book.toml, a manifest, a front page
carrying the table-of-contents placeholder and one sample chapter.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "my-book"
		if len(args) == 1 {
			name = args[0]
		}

		opts := cli.InitOptions{
			Name:          name,
			Title:         initTitle,
			SrcDir:        initSrc,
			BuildDir:      initBuildDir,
			CreateMissing: initCreateMissing,
		}
		if !initYes {
			cli.FillInitOptionsInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), &opts)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Initializing new book: %s\n", opts.Name)
		if err := cli.Init(opts); err != nil {
			return fmt.Errorf("failed to initialize book: %w", err)
		}

		fmt.Fprintf(out, "\nSuccessfully created book in '%s'\n", opts.Name)
		fmt.Fprintln(out, "Next steps:")
		fmt.Fprintf(out, "  cd %s\n", opts.Name)
		fmt.Fprintln(out, "  bookgen build     # build the book")
		fmt.Fprintln(out, "  bookgen serve     # preview locally with live reload")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initTitle, "title", "", "book title (defaults to name)")
	initCmd.Flags().StringVar(&initSrc, "src", "book", "source directory")
	initCmd.Flags().StringVar(&initBuildDir, "build-dir", "docs", "build output directory")
	initCmd.Flags().BoolVar(&initCreateMissing, "create-missing", false, "create missing chapter files on build")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "skip prompts and use provided/default values")
}
