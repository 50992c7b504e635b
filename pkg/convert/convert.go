// Package convert turns libtest JSON output into a report document in one
// call. Conversion never fails: bad input lines end up in the report, and a
// failing template yields a minimal error page.
package convert

import (
	"github.com/dkoosis/testreport/pkg/linker"
	"github.com/dkoosis/testreport/pkg/render"
	"github.com/dkoosis/testreport/pkg/report"
	"github.com/dkoosis/testreport/pkg/testjson"
)

// Config controls a conversion. The zero value renders the built-in HTML
// page with no source links.
type Config struct {
	Resolver linker.Resolver // nil means linker.None
	Title    string          // empty means report.DefaultTitle
	Renderer render.Renderer // nil means render.NewHTML()
}

// ToHTML converts raw runner output to an HTML page.
func ToHTML(input string, cfg Config) string {
	return Render(testjson.Classify(input), cfg)
}

// ToJSON converts raw runner output to the JSON form of the report model.
func ToJSON(input string, cfg Config) string {
	cfg.Renderer = render.NewJSON()
	return Render(testjson.Classify(input), cfg)
}

// Render renders already classified results.
func Render(r *testjson.Results, cfg Config) string {
	return RenderModel(Model(r, cfg), cfg)
}

// RenderModel renders a model built earlier with Model. Source links are
// already in m, so cfg.Resolver is not consulted again.
func RenderModel(m *report.Model, cfg Config) string {
	out, err := cfg.renderer().Render(m)
	if err != nil {
		return render.FallbackHTML(err)
	}
	return out
}

// Model builds the render model for r using cfg's resolver and title.
func Model(r *testjson.Results, cfg Config) *report.Model {
	m := report.Build(r, cfg.Resolver)
	if cfg.Title != "" {
		m.Title = cfg.Title
	}
	return m
}

func (c Config) renderer() render.Renderer {
	if c.Renderer == nil {
		return render.NewHTML()
	}
	return c.Renderer
}
