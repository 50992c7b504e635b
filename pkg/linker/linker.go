// Package linker rewrites backtrace frame markers in captured test output
// into HTML anchors pointing at source code.
package linker

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/dkoosis/testreport/pkg/testjson"
)

// Resolver maps a source location to a URL. ok is false when the location
// has no link. file is the path as printed by the test, with any HTML
// escaping undone; the returned URL is escaped by Link.
type Resolver func(file string, line uint32) (url string, ok bool)

// None never links anything.
func None(string, uint32) (string, bool) { return "", false }

// frameRe matches the "at file.rs:line:col:" marker printed by the Rust
// panic handler.
var frameRe = regexp.MustCompile(`at ([^:\s]+\.rs):(\d+):(\d+):`)

// Link HTML-escapes text and then turns every frame marker the resolver
// knows about into an anchor. Escaping happens before any markup is added,
// so nothing from text can reach the output unescaped. A nil resolver
// behaves like None.
func Link(text string, resolve Resolver) string {
	escaped := html.EscapeString(text)
	if resolve == nil {
		return escaped
	}

	matches := frameRe.FindAllStringSubmatchIndex(escaped, -1)
	if len(matches) == 0 {
		return escaped
	}

	var sb strings.Builder
	sb.Grow(len(escaped))
	last := 0
	for _, m := range matches {
		sb.WriteString(escaped[last:m[0]])
		last = m[1]

		file := escaped[m[2]:m[3]]
		lineStr := escaped[m[4]:m[5]]
		colStr := escaped[m[6]:m[7]]

		url, ok := resolve(html.UnescapeString(file), parseLine(lineStr))
		if !ok {
			sb.WriteString(escaped[m[0]:m[1]])
			continue
		}
		sb.WriteString(`at <a href="`)
		sb.WriteString(html.EscapeString(url))
		sb.WriteString(`" target="_blank">`)
		sb.WriteString(file)
		sb.WriteByte(':')
		sb.WriteString(lineStr)
		sb.WriteByte(':')
		sb.WriteString(colStr)
		sb.WriteString("</a>:")
	}
	sb.WriteString(escaped[last:])
	return sb.String()
}

// parseLine returns 0 for numbers that do not fit in 32 bits.
func parseLine(s string) uint32 {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

// LinkEvent returns a copy of e whose stdout has been passed through Link.
// Events without stdout are returned as is.
func LinkEvent(e *testjson.TestEvent, resolve Resolver) *testjson.TestEvent {
	if e.Stdout == nil {
		return e
	}
	return e.WithStdout(Link(*e.Stdout, resolve))
}
