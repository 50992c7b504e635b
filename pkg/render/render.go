// Package render turns a report.Model into output documents.
package render

import "github.com/dkoosis/testreport/pkg/report"

// Renderer converts a model to formatted output.
type Renderer interface {
	Render(m *report.Model) (string, error)
}
