// Package interp wires lexer, parser, sema and eval behind one API, the
// way the teacher's VM.Run wraps opcode dispatch behind a single entry
// point. Run takes source text and returns the exit status main would
// produce, or a formatted [ErrorKind] diagnostic error per spec §6/§7.
package interp

import (
	"errors"
	"io"
	"strings"

	"github.com/cinth/cinth/ast"
	"github.com/cinth/cinth/builtin"
	"github.com/cinth/cinth/eval"
	"github.com/cinth/cinth/internal/clierr"
	"github.com/cinth/cinth/internal/srcfmt"
	"github.com/cinth/cinth/memtable"
	"github.com/cinth/cinth/parser"
	"github.com/cinth/cinth/sema"
)

// Option configures a Run, mirroring the teacher's VMOption convention.
type Option interface{ apply(*config) }

type config struct {
	stdin    io.Reader
	stdout   io.Writer
	memLimit uint
	seed     int64
	hasSeed  bool
	trace    func(format string, args ...interface{})
}

func defaultConfig() config {
	return config{
		stdin:  strings.NewReader(""),
		stdout: io.Discard,
	}
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithStdin sets the reader backing scanf and getchar.
func WithStdin(r io.Reader) Option { return optionFunc(func(c *config) { c.stdin = r }) }

// WithStdout sets the writer backing printf and putchar.
func WithStdout(w io.Writer) Option { return optionFunc(func(c *config) { c.stdout = w }) }

// WithMemLimit caps the simulated memory's address space; 0 means
// unlimited, matching memtable.New's own convention.
func WithMemLimit(limit uint) Option { return optionFunc(func(c *config) { c.memLimit = limit }) }

// WithSeed pins stdlib.h's rand() PRNG to a fixed seed, for deterministic
// tests and trace runs (spec §9 permits this: rand need not be
// cryptographically random, only representable).
func WithSeed(seed int64) Option {
	return optionFunc(func(c *config) { c.seed = seed; c.hasSeed = true })
}

// WithTrace installs a step-by-step call trace on the evaluator, exactly
// like the teacher's WithLogf forwards to the VM.
func WithTrace(fn func(format string, args ...interface{})) Option {
	return optionFunc(func(c *config) { c.trace = fn })
}

// Result carries everything a caller might want from a completed run: the
// exit status, any semantic warnings collected along the way (narrowing
// assignments, ternary branch mismatches, call-argument type mismatches), and
// the parsed Program (non-nil once parsing succeeds, even if a later
// analysis or eval step fails) for tooling like -dump-ast.
type Result struct {
	Status   int
	Warnings []string
	Program  *ast.Program
}

// Run lexes, parses, statically checks and evaluates src, returning the
// exit status main returned. A Lexical, Syntax, Semantic or Runtime error
// (or any unexpected panic recovered along the way) comes back as err,
// formatted as "[Kind] line N: message" by clierr.Error.Error, never as a
// raw Go panic trace.
func Run(src string, opts ...Option) (Result, error) {
	c := defaultConfig()
	for _, o := range opts {
		o.apply(&c)
	}

	src = srcfmt.RewriteEscapedNewlines(src)

	p, err := parser.New(src)
	if err != nil {
		return Result{}, unwrap(err)
	}
	prog, err := p.Parse()
	if err != nil {
		return Result{}, unwrap(err)
	}

	reg := builtin.NewRegistry(c.stdin, c.stdout)
	if c.hasSeed {
		reg.Seed(c.seed)
	}

	an, err := sema.Analyze(prog, reg)
	if err != nil {
		return Result{Warnings: an.Warnings, Program: prog}, unwrap(err)
	}

	mem := memtable.New(c.memLimit)
	e := eval.New(mem, reg)
	e.Trace = c.trace
	status, err := e.Run(prog)
	if err != nil {
		return Result{Warnings: an.Warnings, Program: prog}, unwrap(err)
	}
	return Result{Status: status, Warnings: an.Warnings, Program: prog}, nil
}

// unwrap peels clierr.Recover's panicError wrapper off err, if present, so
// callers see the clean "[Kind] ..." diagnostic rather than
// "name paniced: [Kind] ...".
func unwrap(err error) error {
	var ce *clierr.Error
	if errors.As(err, &ce) {
		return ce
	}
	return err
}
