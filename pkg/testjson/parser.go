package testjson

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Results holds classified runner output. Every slice keeps input order.
type Results struct {
	Passed    []*TestEvent
	Failed    []*TestEvent
	Ignored   []*TestEvent
	SuiteInfo *SuiteEvent // last suite line seen
	Errors    []string    // malformed event lines
	RawLines  []string    // anything that is not a terminal test or suite event
}

// Classify sorts every non-blank line of input into a bucket.
// It never fails: undecodable lines become Errors or RawLines.
func Classify(input string) *Results {
	r := &Results{}
	for _, line := range strings.Split(input, "\n") {
		r.add(line)
	}
	return r
}

// ParseStream classifies lines read from r. Only read errors are returned.
func ParseStream(r io.Reader) (*Results, error) {
	res := &Results{}
	scanner := bufio.NewScanner(r)
	// Captured stdout can make single events very long
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		res.add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scanning test output: %w", err)
	}
	return res, nil
}

func (r *Results) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	event, err := Decode([]byte(line))
	if err != nil {
		// Compiler output and other chatter is expected; only broken
		// objects are reported.
		if strings.HasPrefix(line, "{") {
			r.Errors = append(r.Errors, fmt.Sprintf("Failed to parse JSON: %v - Line: %s", err, line))
		} else {
			r.RawLines = append(r.RawLines, line)
		}
		return
	}

	switch e := event.(type) {
	case *SuiteEvent:
		r.SuiteInfo = e
	case *TestEvent:
		switch e.Event {
		case StatusOK:
			r.Passed = append(r.Passed, e)
		case StatusFailed:
			r.Failed = append(r.Failed, e)
		case StatusIgnored:
			r.Ignored = append(r.Ignored, e)
		default:
			r.RawLines = append(r.RawLines, line)
		}
	}
}
