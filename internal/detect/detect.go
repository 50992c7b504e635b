// Package detect sniffs input to tell libtest JSON from other test streams.
package detect

import (
	"bytes"
	"encoding/json"

	"github.com/dkoosis/testreport/pkg/testjson"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown     Format = iota
	LibtestJSON        // libtest --format json event stream
	GoTestJSON         // go test -json NDJSON stream
)

func (f Format) String() string {
	switch f {
	case LibtestJSON:
		return "libtest-json"
	case GoTestJSON:
		return "go-test-json"
	default:
		return "unknown"
	}
}

// Sniff looks at the first line that starts with '{'. Leading non-JSON
// lines such as compiler output are skipped.
func Sniff(data []byte) Format {
	for len(data) > 0 {
		var line []byte
		line, data, _ = bytes.Cut(data, []byte("\n"))
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		if _, err := testjson.Decode(line); err == nil {
			return LibtestJSON
		}
		if isGoTestJSON(line) {
			return GoTestJSON
		}
		return Unknown
	}
	return Unknown
}

func isGoTestJSON(line []byte) bool {
	var event struct {
		Action  string `json:"Action"`
		Package string `json:"Package"`
	}
	if err := json.Unmarshal(line, &event); err != nil {
		return false
	}

	validActions := map[string]bool{
		"start": true, "run": true, "pause": true, "cont": true,
		"pass": true, "bench": true, "fail": true, "output": true, "skip": true,
	}
	return validActions[event.Action]
}
