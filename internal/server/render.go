package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/jonathan/jobby/internal/server/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names.
const (
	pageLogin    = "login.html"
	pageHome     = "home.html"
	pageJobs     = "jobs.html"
	pageDetail   = "job_detail.html"
	pageNotFound = "not_found.html"
)

type pages struct {
	byName map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"rating": func(v float64) string { return fmt.Sprintf("%.1f", v) },
}

func loadPages() (*pages, error) {
	p := &pages{byName: make(map[string]*template.Template)}
	for _, name := range []string{pageLogin, pageHome, pageJobs, pageDetail, pageNotFound} {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html", "templates/partials.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		p.byName[name] = t
	}
	return p, nil
}

// Layout is the shared page chrome.
type Layout struct {
	Title           string
	CurrentPage     string
	IsAuthenticated bool
	RequestID       string
}

func (s *Server) layout(r *http.Request, title, current string) Layout {
	l := Layout{Title: title, CurrentPage: current, RequestID: middleware.GetRequestID(r)}
	if sess, err := middleware.GetSession(r); err == nil {
		l.IsAuthenticated = sess.Active()
	}
	return l
}

// render executes a page into a buffer first so a template error never
// produces a half-written page.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := s.pages.byName[name]
	if !ok {
		log.Printf("[render] unknown page %s", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("[render] %s: %v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
