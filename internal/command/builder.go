// Package command builds the argument vectors used to run pytest for
// discovery and execution. Nothing here touches the filesystem or starts a
// process; callers supply the working directory and environment.
package command

import (
	_ "embed"
)

//go:embed scripts/discover.py
var discoverScript string

//go:embed scripts/execute.py
var executeScript string

// DefaultPython is the interpreter used when none is configured.
const DefaultPython = "python"

// baseArgs are passed to pytest on every invocation. Node ids are made
// relative to the working directory, and pytest's own console output and
// cache writes are switched off so stdout carries only protocol lines.
var baseArgs = []string{
	"--rootdir=.",
	"-p", "no:terminal",
	"-p", "no:cacheprovider",
}

// Invocation is an ordered argument vector. Args[0] is the program.
type Invocation struct {
	Args []string
}

// Program returns the executable to start.
func (inv Invocation) Program() string {
	if len(inv.Args) == 0 {
		return ""
	}
	return inv.Args[0]
}

// Arguments returns everything after the program.
func (inv Invocation) Arguments() []string {
	if len(inv.Args) < 2 {
		return nil
	}
	return inv.Args[1:]
}

// Builder produces discovery and execution commandlines for pytest.
type Builder struct {
	python    string
	extraArgs []string
}

// Option configures a Builder.
type Option func(*Builder)

// WithPython sets the interpreter, e.g. ".venv/bin/python".
func WithPython(python string) Option {
	return func(b *Builder) {
		if python != "" {
			b.python = python
		}
	}
}

// WithPytestArgs adds arguments placed after the fixed options and before
// any selection, e.g. "-x" or "--import-mode=importlib".
func WithPytestArgs(args ...string) Option {
	return func(b *Builder) {
		b.extraArgs = append(b.extraArgs, args...)
	}
}

// NewBuilder creates a new Builder
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{python: DefaultPython}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// DiscoverCommandline returns an invocation that, run from the project root,
// prints one test identifier per line for every collected test.
func (b *Builder) DiscoverCommandline() Invocation {
	args := b.prefix(discoverScript)
	args = append(args, "--collect-only")
	args = append(args, b.extraArgs...)
	return Invocation{Args: args}
}

// ExecuteCommandline returns an invocation that runs the selection and
// streams echo and outcome records. An empty selection runs every test.
// Entries are appended verbatim in order; overlapping entries are not merged.
func (b *Builder) ExecuteCommandline(selection []string) Invocation {
	args := b.prefix(executeScript)
	args = append(args, b.extraArgs...)
	args = append(args, Resolve(selection)...)
	return Invocation{Args: args}
}

func (b *Builder) prefix(script string) []string {
	args := make([]string, 0, 3+len(baseArgs)+len(b.extraArgs)+1)
	args = append(args, b.python, "-c", script)
	return append(args, baseArgs...)
}
