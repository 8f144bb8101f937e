//go:build stave

package main

import (
	"cmp"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary    = "bin/folio"
	exportDir = "public"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b": Build,
	"t": Test.Default,
	"l": Lint.Default,
	"c": Check,
	"s": Site.Serve,
	"e": Site.Export,
}

// Namespace types group related targets.
type (
	Test st.Namespace
	Lint st.Namespace
	CI   st.Namespace
	Site st.Namespace
)

// Build compiles bin/folio with version info when any source changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building folio...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/folio")
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes the binary, the exported site and coverage output.
func Clean() error {
	for _, path := range []string{"bin", exportDir, "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs folio into $GOBIN.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/folio")
}

// Default runs all tests with race detection and coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails", "-race", "-coverprofile=coverage.out", "-covermode=atomic")
}

// Quick runs all tests without the race detector or coverage.
func (Test) Quick() error {
	return gotestsum("pkgname")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// Gate is the CI pipeline: unformatted files, vet, lint, build, tests and
// an untidy go.mod all fail it.
func (CI) Gate() error {
	st.SerialDeps(CI.Fmt, CI.Tidy, CI.Lint, Build, Test.Default)
	fmt.Println("✓ CI gate passed")
	return nil
}

// Fmt fails when any file needs gofmt.
func (CI) Fmt() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nrun 'stave lint:fmt'", out)
	}
	return nil
}

// Tidy fails when go mod tidy would change go.mod or go.sum.
func (CI) Tidy() error {
	return sh.RunV("go", "mod", "tidy", "-diff")
}

// Lint runs go vet and golangci-lint without fixing.
func (CI) Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Serve runs the site in the current directory with drafts and hot reload.
func (Site) Serve() error {
	st.Deps(Build)
	return sh.RunV(binary, "serve", "--watch", "--drafts")
}

// Export writes the static site to public/.
func (Site) Export() error {
	st.Deps(Build)
	return sh.RunV(binary, "build", "--out", exportDir)
}

// Posts lists the posts of the site in the current directory, drafts
// included.
func (Site) Posts() error {
	st.Deps(Build)
	return sh.RunV(binary, "posts", "--drafts")
}

func gotestsum(format string, args ...string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	cmd := append([]string{"tool", "gotestsum", "-f", format, "--", "-p", procs, "-parallel", procs}, args...)
	return sh.RunV("go", append(cmd, "./...")...)
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}
