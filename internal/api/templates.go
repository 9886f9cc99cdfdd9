package api

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/ericogr/kids-games/internal/game"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templateFuncs = template.FuncMap{
	"published": func(s game.Status) bool { return s == game.StatusPublished },
	"title": func(s string) string {
		if s == "" {
			return "(no title)"
		}
		return s
	},
	"upper": func(s game.Status) string {
		str := string(s)
		if str == "" {
			return ""
		}
		return strings.ToUpper(str[:1]) + str[1:]
	},
}

// LoadTemplates parses the admin screens.
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
}

// staticFiles serves the admin stylesheet and script.
func staticFiles() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
