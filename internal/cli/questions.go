package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FillInitOptionsInteractive prompts for each option, keeping the current
// value when the answer is empty. Reaching the end of in keeps the rest.
func FillInitOptionsInteractive(in io.Reader, out io.Writer, opts *InitOptions) {
	reader := bufio.NewReader(in)
	ask := func(prompt, def string) string {
		fmt.Fprintf(out, "%s [%s]: ", prompt, def)
		s, _ := reader.ReadString('\n')
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
		return def
	}

	opts.Name = ask("Directory name", opts.Name)
	if opts.Title == "" {
		opts.Title = opts.Name
	}
	opts.Title = ask("Book title", opts.Title)
	opts.SrcDir = ask("Source directory", opts.SrcDir)
	opts.BuildDir = ask("Build directory", opts.BuildDir)

	defCreate := "n"
	if opts.CreateMissing {
		defCreate = "y"
	}
	v := strings.ToLower(ask("Create missing chapter files on build? (y/N)", defCreate))
	opts.CreateMissing = v == "y" || v == "yes"
}
