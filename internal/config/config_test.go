package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

// isolate moves into an empty directory with no user config.
func isolate(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tempDir, "home"))
	return tempDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestResolve_Defaults(t *testing.T) {
	isolate(t)
	r, err := Resolve(Flags{}, noEnv)
	require.NoError(t, err)

	assert.Equal(t, "Test Report", r.Title)
	assert.Equal(t, SourceDefault, r.TitleSource)
	assert.Equal(t, FormatHTML, r.Format)
	assert.Equal(t, "main", r.Ref)
	assert.Empty(t, r.ConfigPath)
	assert.Equal(t, SourceDefault, r.LinkSource)
	assert.False(t, r.Debug)
	assert.Equal(t, DefaultTheme, r.Theme)

	_, ok := r.Resolver()("src/main.rs", 1)
	assert.False(t, ok)
}

func TestResolve_Priority(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, FileName), "title: from file\nformat: json\ndebug: true\nlink:\n  repo: file/repo\n  ref: dev\n")

	r, err := Resolve(Flags{}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, FileName, r.ConfigPath)
	assert.Equal(t, "from file", r.Title)
	assert.Equal(t, SourceFile, r.TitleSource)
	assert.Equal(t, FormatJSON, r.Format)
	assert.True(t, r.Debug)
	assert.Equal(t, SourceFile, r.LinkSource)

	env := envMap(map[string]string{
		"TESTREPORT_TITLE": "from env",
		"TESTREPORT_REPO":  "env/repo",
		"TESTREPORT_DEBUG": "0",
	})
	r, err = Resolve(Flags{}, env)
	require.NoError(t, err)
	assert.Equal(t, "from env", r.Title)
	assert.Equal(t, SourceEnv, r.TitleSource)
	assert.Equal(t, "env/repo", r.Repo)
	assert.Equal(t, "dev", r.Ref)
	assert.False(t, r.Debug)

	r, err = Resolve(Flags{Title: "from cli", Format: "HTML", Debug: true, DebugSet: true}, env)
	require.NoError(t, err)
	assert.Equal(t, "from cli", r.Title)
	assert.Equal(t, SourceCLI, r.TitleSource)
	assert.Equal(t, FormatHTML, r.Format)
	assert.True(t, r.Debug)

	url, ok := r.Resolver()("src/lib.rs", 12)
	assert.True(t, ok)
	assert.Equal(t, "https://github.com/env/repo/blob/dev/src/lib.rs#L12", url)
}

func TestResolve_UsesXDGPath_When_LocalMissing(t *testing.T) {
	dir := isolate(t)
	xdgPath := filepath.Join(dir, "xdg", "testreport", FileName)
	writeFile(t, xdgPath, "title: xdg\n")

	r, err := Resolve(Flags{}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, xdgPath, r.ConfigPath)
	assert.Equal(t, "xdg", r.Title)
}

func TestResolve_LinkPatternWinsOverRepo(t *testing.T) {
	isolate(t)
	r, err := Resolve(Flags{Repo: "o/r", LinkPattern: "https://src.example.com/{file}?l={line}"}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, SourceCLI, r.LinkSource)

	url, ok := r.Resolver()("a.rs", 4)
	assert.True(t, ok)
	assert.Equal(t, "https://src.example.com/a.rs?l=4", url)
}

func TestResolve_ExplicitConfigPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "title: custom\n")

	r, err := Resolve(Flags{ConfigPath: path}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "custom", r.Title)

	_, err = Resolve(Flags{ConfigPath: filepath.Join(dir, "missing.yaml")}, noEnv)
	assert.Error(t, err)
}

func TestResolve_Errors(t *testing.T) {
	dir := isolate(t)

	_, err := Resolve(Flags{Format: "pdf"}, noEnv)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	writeFile(t, filepath.Join(dir, FileName), "title: [unterminated\n")
	_, err = Resolve(Flags{}, noEnv)
	assert.Error(t, err)
}

func TestResolve_Theme(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, FileName), "theme: mono\n")

	r, err := Resolve(Flags{}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "mono", r.Theme)

	r, err = Resolve(Flags{}, envMap(map[string]string{"TESTREPORT_THEME": "env"}))
	require.NoError(t, err)
	assert.Equal(t, "env", r.Theme)

	r, err = Resolve(Flags{Theme: "cli"}, envMap(map[string]string{"TESTREPORT_THEME": "env"}))
	require.NoError(t, err)
	assert.Equal(t, "cli", r.Theme)
}
