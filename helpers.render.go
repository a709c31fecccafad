package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ShopPageData is everything the shop page template needs: the record
// list, the form state (empty, pre-filled or echoing an invalid
// submission), the per-field error messages and the feedback message.
type ShopPageData struct {
	Books    []Book
	Form     BookSubmission
	Selected *Book
	Search   string
	Flash    *Flash
	Errors   map[string]string
}

// ErrorPageData feeds the standalone error page.
type ErrorPageData struct {
	Status int
	Title  string
	Detail string
}

// Renderer executes the embedded html templates. Pages are rendered into
// a buffer first so a template failure never leaks a half-written page.
type Renderer struct {
	logger *zap.Logger
	tmpl   *template.Template
}

// NewRenderer parses the embedded templates set.
func NewRenderer(logger *zap.Logger) (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %v", err)
	}
	return &Renderer{logger: logger, tmpl: tmpl}, nil
}

// ShopPage renders the inventory page with the given status code.
func (rd *Renderer) ShopPage(w http.ResponseWriter, status int, data *ShopPageData) error {
	return rd.render(w, status, "index.html", data)
}

// ErrorPage renders the standalone error page with the given status code.
func (rd *Renderer) ErrorPage(w http.ResponseWriter, status int, data *ErrorPageData) error {
	return rd.render(w, status, "error.html", data)
}

func (rd *Renderer) render(w http.ResponseWriter, status int, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := rd.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
