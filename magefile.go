//go:build mage

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary  = "bin/testreport"
	mainPkg = "./cmd/testreport"
	verPkg  = "github.com/dkoosis/testreport/internal/version"
)

// Default target - build the binary
var Default = Build

// Build builds the testreport binary with version metadata.
func Build() error {
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if version == "" {
		version = "dev"
	}
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	if commit == "" {
		commit = "unknown"
	}
	ldflags := fmt.Sprintf("-s -w -X %[1]s.Version=%[2]s -X %[1]s.CommitHash=%[3]s -X %[1]s.BuildDate=%[4]s",
		verPkg, version, commit, time.Now().UTC().Format(time.RFC3339))
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", binary, mainPkg)
}

// Clean removes build artifacts
func Clean() error {
	return os.RemoveAll("bin")
}

// QA runs formatting, vet, lint and the full test suite.
func QA() {
	mg.SerialDeps(Lint{}.Vet, Lint{}.Golangci, Test{}.Race)
}

// Lint namespace for linting commands
type Lint mg.Namespace

// Vet runs go vet
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Golangci runs golangci-lint, skipping it when not installed.
func (Lint) Golangci() error {
	if _, err := sh.Output("golangci-lint", "version"); err != nil {
		fmt.Fprintln(os.Stderr, "golangci-lint not found (install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest)")
		return nil
	}
	return sh.RunV("golangci-lint", "run", "--timeout=5m", "./...")
}

// Test namespace for testing commands
type Test mg.Namespace

// All runs all tests
func (Test) All() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs tests with race detector
func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Fuzz runs the conversion fuzzer for a short while.
func (Test) Fuzz() error {
	return sh.RunV("go", "test", "-run", "^$", "-fuzz", "FuzzToHTML", "-fuzztime", "30s", "./pkg/convert")
}

// Report renders an HTML report of this repo's own example fixture.
func (Test) Report() error {
	mg.Deps(Build)
	return sh.RunV(binary, "-i", "pkg/convert/testdata/basic.json", "-o", "bin/report.html")
}
