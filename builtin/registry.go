// Package builtin implements the fixed standard-library surface the
// interpreter exposes through #include: stdio.h, stdlib.h, math.h and
// limits.h, grounded on the original interpreter's __builtins__ package but
// rehomed behind a Registry so the semantic analyzer and evaluator share
// one source of truth for each library's declared signatures.
package builtin

import (
	"bufio"
	"io"
	"math/rand"

	"github.com/cinth/cinth/ctype"
	"github.com/cinth/cinth/memtable"
	"github.com/cinth/cinth/value"
)

// Func is one builtin function's declared signature plus its Go
// implementation. ParamTypes == nil marks a variadic/unknown-arity
// function (printf, scanf), matching the semantic analyzer's FunctionSymbol
// contract for `#include`-registered builtins. Call's args are the
// evaluator's raw argument values: a value.Number for every numeric or
// pointer argument, or a Go string for a String-literal argument (printf's
// format string and any %s argument) -- the interpreter never boxes string
// literals as Numbers, matching the original's untyped-string treatment.
type Func struct {
	Name       string
	ReturnType ctype.CType
	ParamTypes []ctype.CType
	Call       func(r *Registry, mem *memtable.Memory, args []interface{}) (value.Number, error)
}

// Const is a builtin constant exposed by a library, e.g. stdlib.h's NULL.
type Const struct {
	Name  string
	Value value.Number
}

// Library is one #include-able header's exported funcs and consts.
type Library struct {
	Name   string
	Funcs  []Func
	Consts []Const
}

// Registry holds every known library plus the shared I/O and PRNG state
// their implementations need (stdout/stdin streams, and stdlib.h's
// rand/srand seed, which is process-global in real C and so modeled as
// Registry-global here too).
type Registry struct {
	libs map[string]*Library

	Stdout io.Writer
	Stdin  *bufio.Reader
	rng    *rand.Rand
}

// NewRegistry builds a Registry with every supported library pre-registered,
// reading scanf/getchar input from stdin and writing printf/putchar output
// to stdout.
func NewRegistry(stdin io.Reader, stdout io.Writer) *Registry {
	r := &Registry{
		libs:   make(map[string]*Library),
		Stdout: stdout,
		Stdin:  bufio.NewReader(stdin),
		rng:    rand.New(rand.NewSource(1)),
	}
	r.register(stdioLibrary())
	r.register(stdlibLibrary())
	r.register(mathLibrary())
	r.register(limitsLibrary())
	return r
}

func (r *Registry) register(lib *Library) { r.libs[lib.Name] = lib }

// Library looks up a header by its bare name (e.g. "stdio" for
// `#include <stdio.h>`).
func (r *Registry) Library(name string) (*Library, bool) {
	lib, ok := r.libs[name]
	return lib, ok
}

// Seed reseeds the shared PRNG, used by stdlib.h's srand.
func (r *Registry) Seed(seed int64) { r.rng = rand.New(rand.NewSource(seed)) }
