package websearch

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"webspider/internal/storage"
)

// maxQueryTerms caps how many words of the query are matched.
const maxQueryTerms = 4

var formTmpl = template.Must(template.New("form").Parse(`<html>
<head><title>Search</title></head>
<body>
<h1>Search the index</h1>
<form method="POST" action="/">
<input type="text" name="query" maxlength="100"/>
<button type="submit">Search</button>
</form>
</body>
</html>
`))

var resultsTmpl = template.Must(template.New("results").Parse(`<html>
<head><title>Search results</title></head>
<body>
{{if .}}<h2>Results:</h2>
<ul>
{{range .}}<li><a href="{{.URL}}">{{.URL}}</a></li>
{{end}}</ul>
{{else}}<h2>No results found</h2>
{{end}}</body>
</html>
`))

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		renderHTML(w, formTmpl, nil)

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		terms := queryTerms(r.PostFormValue("query"))
		if len(terms) == 0 {
			renderHTML(w, formTmpl, nil)
			return
		}
		matches, err := s.store.SearchDocuments(r.Context(), terms)
		if err != nil {
			slog.Error("search failed", "terms", terms, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		renderHTML(w, resultsTmpl, matches)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// queryTerms lowercases and splits the raw query, keeping at most
// maxQueryTerms words. Stored words are lowercase, so lowercasing here
// makes the match case-insensitive.
func queryTerms(q string) []string {
	fields := strings.Fields(strings.ToLower(q))
	if len(fields) > maxQueryTerms {
		fields = fields[:maxQueryTerms]
	}
	return fields
}

func renderHTML(w http.ResponseWriter, tmpl *template.Template, data []storage.DocumentMatch) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("render page", "error", err)
	}
}
