package app

import (
	"html/template"
	"net/http"
)

// The viewer is deliberately plain server-rendered HTML; presentation polish
// belongs to whatever sits in front of the JSON API.
var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>pagepeek</title></head>
<body>
<h1>pagepeek</h1>
<form action="/view" method="get">
  <input type="url" name="url" placeholder="https://example.com" size="60" required>
  <button type="submit">Peek</button>
</form>
{{if .}}
<h2>History</h2>
<ul>
{{range .}}
  <li><a href="/view?url={{.SourceURL}}">{{.Title}}</a> — {{.SourceURL}} ({{.FetchedAt.Format "2006-01-02 15:04:05"}})</li>
{{end}}
</ul>
{{end}}
</body>
</html>
`))

var viewTmpl = template.Must(template.New("view").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Title}} — pagepeek</title></head>
<body>
<p><a href="/">&larr; back</a></p>
<h1>{{.Title}}</h1>
<p>{{.Description}}</p>
<ul>
  <li>Source: <a href="{{.SourceURL}}">{{.SourceURL}}</a></li>
  <li>Domain: {{.Domain}}</li>
  <li>Fetched: {{.FetchedAt.Format "2006-01-02 15:04:05"}}</li>
  <li>Status: {{.HTTPStatus}}</li>
  <li>Content-Type: {{.ContentType}}</li>
</ul>
{{if .Headings}}
<h2>Headings</h2>
<ul>{{range .Headings}}<li><strong>{{.Level}}</strong> {{.Text}}</li>{{end}}</ul>
{{end}}
{{if .Paragraphs}}
<h2>Paragraphs</h2>
{{range .Paragraphs}}<p>{{.}}</p>{{end}}
{{end}}
{{if .Links}}
<h2>Links</h2>
<ol>{{range .Links}}<li><a href="{{.Href}}">{{.Text}}</a></li>{{end}}</ol>
{{end}}
{{if .Images}}
<h2>Images</h2>
<ul>{{range .Images}}<li><a href="{{.Src}}">{{if .Alt}}{{.Alt}}{{else}}{{.Src}}{{end}}</a></li>{{end}}</ul>
{{end}}
{{if .MetaTags}}
<h2>Meta tags</h2>
<ul>{{range $k, $v := .MetaTags}}<li><strong>{{$k}}</strong>: {{$v}}</li>{{end}}</ul>
{{end}}
{{if .BodyTextPreview}}
<h2>Preview</h2>
<p>{{.BodyTextPreview}}&hellip;</p>
{{end}}
</body>
</html>
`))

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	renderHTML(w, indexTmpl, reverseRecords(a.History()))
}

func (a *App) handleView(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}
	rec, _, err := a.SubmitURL(r.Context(), rawURL, false)
	if err != nil {
		http.Error(w, err.Error(), httpStatusFor(err))
		return
	}
	renderHTML(w, viewTmpl, rec)
}

func renderHTML(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
