package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/testreport/pkg/report"
)

//go:embed templates/report.html.tmpl
var reportTemplate string

var defaultTemplate = template.Must(template.New("report").Funcs(funcMap()).Parse(reportTemplate))

// HTML renders a self-contained HTML page.
type HTML struct {
	tmpl *template.Template
}

// NewHTML returns a renderer using the built-in page template.
func NewHTML() *HTML {
	return &HTML{tmpl: defaultTemplate}
}

// ParseHTML returns a renderer for a caller-supplied template. The template
// sees a *report.Model as its data and has the sprig functions available
// plus count, seconds, and title.
func ParseHTML(name, text string) (*HTML, error) {
	tmpl, err := template.New(name).Funcs(funcMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	return &HTML{tmpl: tmpl}, nil
}

// Render executes the template against m.
func (h *HTML) Render(m *report.Model) (string, error) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("rendering %s: %w", h.tmpl.Name(), err)
	}
	return buf.String(), nil
}

// FallbackHTML is the page shown when a template fails.
func FallbackHTML(err error) string {
	return "<html><body><h1>Template Error</h1><p>" + html.EscapeString(err.Error()) + "</p></body></html>"
}

func funcMap() template.FuncMap {
	fm := sprig.HtmlFuncMap()
	// Casers are stateful, so each call gets its own.
	fm["title"] = func(s string) string { return cases.Title(language.English).String(s) }
	fm["count"] = func(n *uint32) string {
		if n == nil {
			return "-"
		}
		return fmt.Sprintf("%d", *n)
	}
	fm["seconds"] = func(s *float64) string {
		if s == nil {
			return ""
		}
		return fmt.Sprintf("%.3fs", *s)
	}
	return fm
}
