package dashboard

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed web/index.html
var content embed.FS

var pageTmpl = template.Must(template.ParseFS(content, "web/index.html"))

type pageData struct {
	Title   string
	Options Options
}

// PageHandler serves the single dashboard page with its selector options inlined.
func (d *Dashboard) PageHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pageData{Title: d.Layout.Title, Options: d.Options()}
	if err := pageTmpl.Execute(w, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
