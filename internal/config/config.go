package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/testreport/pkg/linker"
	"github.com/dkoosis/testreport/pkg/report"
)

// FileName is the config file looked up in the working directory and the
// user config directory.
const FileName = ".testreport.yaml"

// Output formats.
const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// Resolution sources recorded in Resolved.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// DefaultTheme is the terminal summary theme used when none is configured.
const DefaultTheme = "default"

// ErrUnknownFormat is returned when the output format is not html or json.
var ErrUnknownFormat = errors.New("unknown format")

// File is the schema of .testreport.yaml.
type File struct {
	Title    string `yaml:"title,omitempty"`
	Format   string `yaml:"format,omitempty"`
	Template string `yaml:"template,omitempty"`
	Theme    string `yaml:"theme,omitempty"`
	Debug    bool   `yaml:"debug"`
	Link     struct {
		Repo    string `yaml:"repo,omitempty"`
		Ref     string `yaml:"ref,omitempty"`
		Pattern string `yaml:"pattern,omitempty"`
	} `yaml:"link"`
}

// Flags holds command-line values. Empty strings mean "not given".
type Flags struct {
	ConfigPath  string
	Title       string
	Format      string
	Template    string
	Theme       string
	Repo        string
	Ref         string
	LinkPattern string
	Debug       bool
	DebugSet    bool
}

// Resolved is the final configuration after applying priorities.
type Resolved struct {
	Title       string
	Format      string
	Template    string
	Theme       string // terminal summary theme, see render.ThemeByName
	Repo        string
	Ref         string
	LinkPattern string
	Debug       bool

	// Resolution metadata (for debug logging)
	ConfigPath   string // file that was loaded, "" if none
	TitleSource  string
	FormatSource string
	LinkSource   string
}

// Resolve merges flags, environment (read through getenv), the config file
// and defaults. An explicit ConfigPath that cannot be read is an error; a
// missing file found by search is not.
func Resolve(flags Flags, getenv func(string) string) (*Resolved, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	file, path, err := load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	r := &Resolved{ConfigPath: path}
	r.Title, r.TitleSource = pick(flags.Title, getenv("TESTREPORT_TITLE"), file.Title, report.DefaultTitle)
	r.Format, r.FormatSource = pick(flags.Format, getenv("TESTREPORT_FORMAT"), file.Format, FormatHTML)
	r.Template, _ = pick(flags.Template, getenv("TESTREPORT_TEMPLATE"), file.Template, "")
	r.Theme, _ = pick(flags.Theme, getenv("TESTREPORT_THEME"), file.Theme, DefaultTheme)
	r.Ref, _ = pick(flags.Ref, getenv("TESTREPORT_REF"), file.Link.Ref, linker.DefaultRef)

	var patternSrc, repoSrc string
	r.LinkPattern, patternSrc = pick(flags.LinkPattern, getenv("TESTREPORT_LINK_PATTERN"), file.Link.Pattern, "")
	r.Repo, repoSrc = pick(flags.Repo, getenv("TESTREPORT_REPO"), file.Link.Repo, "")
	switch {
	case r.LinkPattern != "":
		r.LinkSource = patternSrc
	case r.Repo != "":
		r.LinkSource = repoSrc
	default:
		r.LinkSource = SourceDefault
	}

	switch {
	case flags.DebugSet:
		r.Debug = flags.Debug
	case getenv("TESTREPORT_DEBUG") != "":
		r.Debug = parseBool(getenv("TESTREPORT_DEBUG"))
	default:
		r.Debug = file.Debug
	}

	r.Format = strings.ToLower(r.Format)
	if r.Format != FormatHTML && r.Format != FormatJSON {
		return nil, fmt.Errorf("%w %q (expected %s or %s)", ErrUnknownFormat, r.Format, FormatHTML, FormatJSON)
	}
	return r, nil
}

// Resolver returns the source-link resolver described by r.
func (r *Resolved) Resolver() linker.Resolver {
	switch {
	case r.LinkPattern != "":
		return linker.Pattern(r.LinkPattern)
	case r.Repo != "":
		return linker.NewGitHub(r.Repo).WithRef(r.Ref).Resolve
	default:
		return linker.None
	}
}

func pick(cli, env, file, def string) (string, string) {
	switch {
	case cli != "":
		return cli, SourceCLI
	case env != "":
		return env, SourceEnv
	case file != "":
		return file, SourceFile
	default:
		return def, SourceDefault
	}
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

// load reads the config file. With an empty path the working directory and
// then the user config directory are searched.
func load(path string) (*File, string, error) {
	explicit := path != ""
	if !explicit {
		path = searchPath()
		if path == "" {
			return &File{}, "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &File{}, "", nil
		}
		return nil, "", fmt.Errorf("reading config file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, "", fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &f, path, nil
}

func searchPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "testreport", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}
