// Package config handles configuration loading and merging for testreport.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (-title, -format, -template, -repo, -ref, -link-pattern, -debug)
//  2. Environment variables (TESTREPORT_TITLE, TESTREPORT_REPO, ...)
//  3. YAML config file (.testreport.yaml in the working directory or
//     $XDG_CONFIG_HOME/testreport/.testreport.yaml)
//  4. Hardcoded defaults
//
// # Source Links
//
// A link pattern takes precedence over a repository: when both are set the
// pattern is used. With neither set, reports carry no source links.
//
// # Environment Variables
//
//   - TESTREPORT_TITLE: report title
//   - TESTREPORT_FORMAT: "html" or "json"
//   - TESTREPORT_TEMPLATE: path to a custom HTML template
//   - TESTREPORT_REPO, TESTREPORT_REF: GitHub repository and ref for links
//   - TESTREPORT_LINK_PATTERN: URL template with {file} and {line}
//   - TESTREPORT_DEBUG: set to "true" or "1" to enable debug logging
package config
