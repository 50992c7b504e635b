package linker

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultRef is the branch used when none is configured.
const DefaultRef = "main"

// GitHub links into a repository's blob view.
type GitHub struct {
	Repo string // owner/name
	Ref  string // branch, tag, or commit
}

// NewGitHub returns a linker for repo at DefaultRef.
func NewGitHub(repo string) GitHub {
	return GitHub{Repo: repo, Ref: DefaultRef}
}

// WithRef returns a copy of g pointing at ref.
func (g GitHub) WithRef(ref string) GitHub {
	g.Ref = ref
	return g
}

// Resolve implements Resolver.
func (g GitHub) Resolve(file string, line uint32) (string, bool) {
	if g.Repo == "" {
		return "", false
	}
	ref := g.Ref
	if ref == "" {
		ref = DefaultRef
	}
	return fmt.Sprintf("https://github.com/%s/blob/%s/%s#L%d", g.Repo, ref, file, line), true
}

// Pattern builds a Resolver from a URL template containing {file} and
// {line} placeholders, e.g. "https://git.example.com/r/-/blob/main/{file}#L{line}".
// An empty template yields None.
func Pattern(tmpl string) Resolver {
	if tmpl == "" {
		return None
	}
	return func(file string, line uint32) (string, bool) {
		r := strings.NewReplacer("{file}", file, "{line}", strconv.FormatUint(uint64(line), 10))
		return r.Replace(tmpl), true
	}
}
