package main

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/geocine/bookgen/internal/utils"
)

var cleanDestDir string

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the build and preview directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadProject()
		if err != nil {
			return err
		}
		if cleanDestDir != "" {
			cfg.Build.BuildDir = cleanDestDir
		}

		for _, dir := range []string{cfg.BuildDir(), cfg.PreviewDir()} {
			if err := cleanDir(cmd.OutOrStdout(), dir); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	cleanCmd.Flags().StringVarP(&cleanDestDir, "dest-dir", "d", "", "build directory to clean (overrides build-dir)")
}

// cleanDir removes dir and reports what it held
func cleanDir(out io.Writer, dir string) error {
	if !utils.DirExists(dir) {
		fmt.Fprintf(out, "Nothing to clean; directory '%s' does not exist.\n", dir)
		return nil
	}

	var files, dirs int
	var bytes int64
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir {
				dirs++
			}
			return nil
		}
		files++
		if info, err := d.Info(); err == nil {
			bytes += info.Size()
		}
		return nil
	})

	if err := utils.RemoveAll(dir); err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed %d files, %d directories, %s from '%s'.\n", files, dirs, humanBytes(bytes), dir)
	return nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	val := float64(n) / float64(div)
	suffix := []string{"KiB", "MiB", "GiB", "TiB"}
	if exp >= len(suffix) {
		return fmt.Sprintf("%.1f PiB", val/float64(unit))
	}
	return fmt.Sprintf("%.1f %s", val, suffix[exp])
}
