package main

import (
	"embed"
)

// embeddedFrontend holds the preview page templates and stylesheet.
//
//go:embed frontend
var embeddedFrontend embed.FS
