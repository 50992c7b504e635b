package render

import (
	"encoding/json"

	"github.com/dkoosis/testreport/pkg/report"
)

// JSONVersion identifies the layout of JSON output.
const JSONVersion = "1.0"

// JSON renders the model as structured JSON for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

type jsonOutput struct {
	Version string `json:"version"`
	*report.Model
}

// Render formats the model as indented JSON. Test stdout is emitted in its
// escaped and linked HTML form.
func (j *JSON) Render(m *report.Model) (string, error) {
	data, err := json.MarshalIndent(jsonOutput{Version: JSONVersion, Model: m}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
