// Package templates carries the embedded HTML pages for the login and
// consent flows.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Load parses the embedded pages.
func Load() *template.Template {
	return template.Must(template.ParseFS(files, "*.html"))
}
