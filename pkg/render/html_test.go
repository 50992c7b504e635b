package render

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/testreport/pkg/report"
	"github.com/dkoosis/testreport/pkg/testjson"
)

func buildModel(t *testing.T, lines ...string) *report.Model {
	t.Helper()
	resolve := func(file string, line uint32) (string, bool) {
		return "https://example.com/" + file, true
	}
	return report.Build(testjson.Classify(strings.Join(lines, "\n")), resolve)
}

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestHTML_RendersCountsAndSections(t *testing.T) {
	m := buildModel(t,
		"   Compiling demo v0.1.0",
		`{"type":"test","name":"tests::a","event":"ok","exec_time":0.002}`,
		`{"type":"test","name":"tests::b","event":"failed","stdout":"panicked at src/lib.rs:4:5:\nboom\n"}`,
		`{"type":"test","name":"tests::c","event":"ignored"}`,
		`{ bad`,
		`{"type":"suite","event":"failed","passed":1,"failed":1,"ignored":1,"exec_time":0.5}`,
	)

	out, err := NewHTML().Render(m)
	require.NoError(t, err)
	doc := parseDoc(t, out)

	assert.Equal(t, "Test Report", doc.Find("title").Text())
	assert.Equal(t, "1", doc.Find(".stat.passed .stat-number").Text())
	assert.Equal(t, "1", doc.Find(".stat.failed .stat-number").Text())
	assert.Equal(t, "1", doc.Find(".stat.ignored .stat-number").Text())
	assert.Equal(t, "Suite: Failed", doc.Find("section.suite h2").Text())
	assert.Contains(t, doc.Find("section.suite").Text(), "Time: 0.500s")

	failed := doc.Find("section.test-failed details")
	require.Equal(t, 1, failed.Length())
	_, open := failed.Attr("open")
	assert.True(t, open, "failed tests with output start expanded")
	href, ok := failed.Find("pre a").Attr("href")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/src/lib.rs", href)
	assert.Equal(t, "src/lib.rs:4:5", failed.Find("pre a").Text())

	assert.Equal(t, "tests::a0.002s", doc.Find("section.test-passed summary").Text())
	assert.Equal(t, "No output captured", doc.Find("section.test-ignored .no-output").Text())
	assert.Equal(t, 1, doc.Find("section.errors li").Length())
	assert.Equal(t, "Compiling demo v0.1.0", doc.Find("section.raw pre").Text())
}

func TestHTML_EmptyModel(t *testing.T) {
	out, err := NewHTML().Render(report.Build(testjson.Classify(""), nil))
	require.NoError(t, err)
	doc := parseDoc(t, out)

	assert.Equal(t, "0", doc.Find(".stat.passed .stat-number").Text())
	assert.Equal(t, 0, doc.Find("section").Length())
}

func TestHTML_EscapesUntrustedFields(t *testing.T) {
	m := buildModel(t,
		`{"type":"test","name":"<script>alert(1)</script>","event":"ok","stdout":"<script>alert('xss')</script>"}`,
		`<script>raw()</script>`,
		`{ "<script>bad()</script>`,
	)
	m.Title = "<b>title</b>"

	out, err := NewHTML().Render(m)
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<b>title</b>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestHTML_ConcurrentRender(t *testing.T) {
	m := buildModel(t, `{"type":"suite","event":"ok","passed":0}`)
	h := NewHTML()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Render(m)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestParseHTML_CustomTemplate(t *testing.T) {
	h, err := ParseHTML("custom", `<p>{{ .PassedCount }} {{ upper .Title }}</p>`)
	require.NoError(t, err)
	out, err := h.Render(buildModel(t, `{"type":"test","name":"a","event":"ok"}`))
	require.NoError(t, err)
	assert.Equal(t, "<p>1 TEST REPORT</p>", out)
}

func TestParseHTML_Errors(t *testing.T) {
	_, err := ParseHTML("broken", `{{ .PassedCount `)
	assert.Error(t, err)

	h, err := ParseHTML("failing", `{{ fail "boom" }}`)
	require.NoError(t, err)
	_, err = h.Render(buildModel(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestFallbackHTML(t *testing.T) {
	out := FallbackHTML(errors.New(`bad <tag> & "quote"`))
	assert.Equal(t,
		"<html><body><h1>Template Error</h1><p>bad &lt;tag&gt; &amp; &#34;quote&#34;</p></body></html>",
		out)
}
