// Package web holds the dashboard page served by the fleet server.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templates embed.FS

// PageName is the template name of the dashboard page.
const PageName = "index.html"

// PageData is what the dashboard template renders from. The initial view
// is inlined so the page has rows before the websocket connects.
type PageData struct {
	Title      string
	CSRFToken  string
	CSRFHeader string
	PollMs     int
	View       any
}

func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templates, "templates/*.html"))
}
