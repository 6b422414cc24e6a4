package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/i-ashu/portfolio/internal/models"
	"github.com/i-ashu/portfolio/internal/projects"
	"github.com/i-ashu/portfolio/internal/trigger"
)

// GridID is the container the project cards are swapped into.
const GridID = "projects-grid"

// ErrorMessage replaces the grid when the project list could not be loaded.
const ErrorMessage = "Unable to load projects right now. Please try again later."

//go:embed templates/*.html
var templateFS embed.FS

// Page holds the rendered fragments for the named containers of one page.
type Page struct {
	containers map[string]template.HTML
}

// NewPage declares the containers the page has. Swapping into any other
// name is ignored.
func NewPage(ids ...string) *Page {
	p := &Page{containers: make(map[string]template.HTML, len(ids))}
	for _, id := range ids {
		p.containers[id] = ""
	}
	return p
}

// Swap replaces a container's content. It reports false, and does nothing,
// when the page has no such container.
func (p *Page) Swap(id string, html template.HTML) bool {
	if _, ok := p.containers[id]; !ok {
		return false
	}
	p.containers[id] = html
	return true
}

func (p *Page) Container(id string) template.HTML {
	return p.containers[id]
}

// PageData feeds the full document template.
type PageData struct {
	Title    string
	Owner    string
	Roles    []string
	Account  string
	FormName string
	Year     int
	Projects template.HTML
}

// Renderer turns pipeline results into markup.
type Renderer struct {
	tmpl     *template.Template
	triggers *trigger.Registry
}

func New(triggers *trigger.Registry) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"delay": staggerDelay,
		"join":  strings.Join,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, triggers: triggers}, nil
}

// Template exposes the parsed set so an HTTP engine can render with it.
func (r *Renderer) Template() *template.Template { return r.tmpl }

type gridData struct {
	Failed  bool
	Message string
	Cards   []models.ProjectCard
}

// Grid renders the projects fragment for a pipeline result.
func (r *Renderer) Grid(res projects.Result) (template.HTML, error) {
	data := gridData{Cards: res.Cards}
	if res.Failed() {
		data = gridData{Failed: true, Message: ErrorMessage}
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "grid.html", data); err != nil {
		return "", fmt.Errorf("rendering projects grid: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Projects swaps the grid into the page and fires the matching trigger so
// reveal-on-scroll behaviour can re-arm on the new cards. A page without the
// grid container is left untouched.
func (r *Renderer) Projects(ctx context.Context, page *Page, res projects.Result) error {
	html, err := r.Grid(res)
	if err != nil {
		return err
	}
	if !page.Swap(GridID, html) {
		return nil
	}
	if res.Failed() {
		r.triggers.Fire(ctx, trigger.Event{Name: trigger.ProjectsFailed, Err: res.Err})
		return nil
	}
	r.triggers.Fire(ctx, trigger.Event{Name: trigger.ProjectsRendered, Count: len(res.Cards)})
	return nil
}

// Document writes the full page, taking the grid from page.
func (r *Renderer) Document(w io.Writer, page *Page, data PageData) error {
	data.Projects = page.Container(GridID)
	if err := r.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

// staggerDelay spaces out card reveal transitions by 100ms each.
func staggerDelay(i int) string {
	return fmt.Sprintf("%.1fs", float64(i)*0.1)
}
