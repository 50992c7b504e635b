// Package report builds the render-ready view of a classified test run.
package report

import (
	"html/template"

	"github.com/dkoosis/testreport/pkg/linker"
	"github.com/dkoosis/testreport/pkg/testjson"
)

// DefaultTitle is used when no title is configured.
const DefaultTitle = "Test Report"

// TestView is a test event prepared for display. Stdout is already escaped
// and linked, so templates must not escape it again.
type TestView struct {
	Name      string        `json:"name"`
	Event     string        `json:"event"`
	Stdout    template.HTML `json:"stdout,omitempty"`
	HasStdout bool          `json:"-"`
	ExecTime  *float64      `json:"exec_time,omitempty"`
}

// Model is everything a renderer needs. It is a copy: changing it does not
// touch the Results it was built from.
type Model struct {
	Title        string               `json:"title"`
	Passed       []TestView           `json:"passed"`
	Failed       []TestView           `json:"failed"`
	Ignored      []TestView           `json:"ignored"`
	PassedCount  int                  `json:"passed_count"`
	FailedCount  int                  `json:"failed_count"`
	IgnoredCount int                  `json:"ignored_count"`
	SuiteInfo    *testjson.SuiteEvent `json:"suite_info"`
	Errors       []string             `json:"errors"`
	RawLines     []string             `json:"raw_lines"`
	Stats        testjson.Stats       `json:"-"`
}

// Build links every test's stdout through resolve and packages the buckets
// of r with their counts. A nil resolve links nothing.
func Build(r *testjson.Results, resolve linker.Resolver) *Model {
	if resolve == nil {
		resolve = linker.None
	}
	m := &Model{
		Title:        DefaultTitle,
		Passed:       views(r.Passed, resolve),
		Failed:       views(r.Failed, resolve),
		Ignored:      views(r.Ignored, resolve),
		PassedCount:  len(r.Passed),
		FailedCount:  len(r.Failed),
		IgnoredCount: len(r.Ignored),
		Errors:       append([]string{}, r.Errors...),
		RawLines:     append([]string{}, r.RawLines...),
		Stats:        testjson.ComputeStats(r),
	}
	if r.SuiteInfo != nil {
		suite := *r.SuiteInfo
		m.SuiteInfo = &suite
	}
	return m
}

func views(events []*testjson.TestEvent, resolve linker.Resolver) []TestView {
	out := make([]TestView, 0, len(events))
	for _, e := range events {
		linked := linker.LinkEvent(e, resolve)
		v := TestView{
			Name:     linked.Name,
			Event:    linked.Event,
			ExecTime: linked.ExecTime,
		}
		if linked.Stdout != nil {
			v.HasStdout = true
			// Link escaped the text before adding anchors.
			v.Stdout = template.HTML(*linked.Stdout) //nolint:gosec // escaped by linker.Link
		}
		out = append(out, v)
	}
	return out
}
