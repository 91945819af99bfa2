package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/geocine/bookgen/internal/config"
	"github.com/geocine/bookgen/internal/models"
	"github.com/geocine/bookgen/internal/utils"
)

// ErrAlreadyInitialized is returned when the target already has a book.toml
var ErrAlreadyInitialized = errors.New("book already initialized")

// InitOptions captures options for initializing a new book
type InitOptions struct {
	Name          string
	Title         string // optional book title; defaults to the directory name
	SrcDir        string // default: book
	BuildDir      string // default: docs
	CreateMissing bool   // recorded in book.toml
}

type scaffoldBook struct {
	Title string `toml:"title"`
	Src   string `toml:"src"`
}

type scaffoldBuild struct {
	BuildDir      string `toml:"build-dir"`
	CreateMissing bool   `toml:"create-missing"`
}

type scaffoldToc struct {
	Placeholder string `toml:"placeholder"`
}

type scaffoldConfig struct {
	Book  scaffoldBook  `toml:"book"`
	Build scaffoldBuild `toml:"build"`
	Toc   scaffoldToc   `toml:"toc"`
}

// Init scaffolds a new book at the given directory
func Init(opts InitOptions) error {
	defaults := config.NewDefaultConfig()
	if opts.Name == "" {
		opts.Name = "my-book"
	}
	if opts.SrcDir == "" {
		opts.SrcDir = defaults.Book.Src
	}
	if opts.BuildDir == "" {
		opts.BuildDir = defaults.Build.BuildDir
	}
	if opts.Title == "" {
		opts.Title = filepath.Base(opts.Name)
	}

	root := opts.Name
	if utils.FileExists(filepath.Join(root, config.FileName)) {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, root)
	}

	srcPath := filepath.Join(root, opts.SrcDir)
	if err := utils.CreateDirAll(srcPath); err != nil {
		return err
	}

	bookToml, err := toml.Marshal(scaffoldConfig{
		Book:  scaffoldBook{Title: opts.Title, Src: opts.SrcDir},
		Build: scaffoldBuild{BuildDir: opts.BuildDir, CreateMissing: opts.CreateMissing},
		Toc:   scaffoldToc{Placeholder: defaults.Toc.Placeholder},
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", config.FileName, err)
	}
	if err := utils.WriteFile(filepath.Join(root, config.FileName), bookToml); err != nil {
		return err
	}

	manifest := models.Manifest{
		{Name: "getting-started.md", Title: "Getting Started"},
	}
	manifestJSON, err := json.MarshalIndent(manifest, "", "\t")
	if err != nil {
		return err
	}
	if err := utils.WriteFile(filepath.Join(srcPath, defaults.Build.Manifest), append(manifestJSON, '\n')); err != nil {
		return err
	}

	intro := fmt.Sprintf("# %s\n\nWelcome to your new book!\n\n%s\n", opts.Title, defaults.Toc.Placeholder)
	if err := utils.WriteFile(filepath.Join(srcPath, defaults.Build.FrontPage), []byte(intro)); err != nil {
		return err
	}

	chapter := "# Getting Started\n\n## First Steps\n\nStart writing here.\n\n### A Detail\n\nSubsections are numbered too.\n"
	if err := utils.WriteFile(filepath.Join(srcPath, "getting-started.md"), []byte(chapter)); err != nil {
		return err
	}

	// The preview is a local artefact; the build directory is meant to be committed.
	gitignore := []byte(fmt.Sprintf("%s\n.env\n", defaults.Build.PreviewDir))
	if err := utils.WriteFile(filepath.Join(root, ".gitignore"), gitignore); err != nil {
		return err
	}

	return nil
}
