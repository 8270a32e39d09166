package memtable

import (
	"fmt"

	"github.com/cinth/cinth/ctype"
	"github.com/cinth/cinth/value"
)

// allocBase is where the address cursor starts. Declared variables and
// malloc'd blocks both take their addresses from it, so every address is
// at least allocBase and stray low reads/writes are easy to spot as bugs
// while debugging a program under test.
const allocBase = 1_000_000

// Cell is anything raw_store can hold: a value.Number (including a
// pointer-shaped one), or a function binding (*ast.FunctionDecl or a
// builtin.Func, both held as interface{} to avoid a package cycle between
// memtable and ast/builtin).
type Cell = interface{}

// slot is what a Scope binds a name to: either an address into raw_store,
// or a constant value bound directly (no storage).
type slot struct {
	isConst  bool
	addr     uint
	constVal Cell
}

// Scope is name -> slot, chained to a parent scope.
type Scope struct {
	name   string
	parent *Scope
	values map[string]slot
}

func newScope(name string, parent *Scope) *Scope {
	return &Scope{name: name, parent: parent, values: make(map[string]slot)}
}

func (s *Scope) find(name string) (*Scope, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.values[name]; ok {
			return cur, true
		}
	}
	return nil, false
}

// Frame is one function activation: a stack of nested block scopes rooted
// at the parameter-binding scope.
type Frame struct {
	name string
	leaf *Scope
}

func newFrame(name string) *Frame {
	return &Frame{name: name, leaf: newScope(name+".scope_00", nil)}
}

// NewScope pushes a new block scope nested under the frame's current scope.
func (f *Frame) NewScope() { f.leaf = newScope(f.name+".block", f.leaf) }

// DelScope pops the frame's current block scope.
func (f *Frame) DelScope() {
	if f.leaf.parent != nil {
		f.leaf = f.leaf.parent
	}
}

func (f *Frame) find(name string) (*Scope, bool) { return f.leaf.find(name) }

// Stack is the call stack of frames, topmost last.
type Stack struct {
	frames []*Frame
}

func (s *Stack) top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *Stack) push(name string) { s.frames = append(s.frames, newFrame(name)) }

func (s *Stack) pop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Memory is the interpreter's whole simulated address space: a global
// scope, a call stack of frames with nested block scopes, and an
// address-keyed raw store for the actual values.
type Memory struct {
	global   *Scope
	stack    Stack
	raw      *PagedStore[Cell]
	nextAddr uint
	live     map[uint]bool // addresses currently allocated by malloc, for free/double-free detection
}

// New builds an empty Memory. memLimit of 0 means unlimited.
func New(memLimit uint) *Memory {
	return &Memory{
		global:   newScope("global_scope", nil),
		raw:      NewPagedStore[Cell](memLimit),
		nextAddr: allocBase,
		live:     make(map[uint]bool),
	}
}

func (m *Memory) curScope() *Scope {
	if f := m.stack.top(); f != nil {
		return f.leaf
	}
	return m.global
}

// Allocate reserves n consecutive addresses and returns the base.
func (m *Memory) Allocate(n uint) uint {
	base := m.nextAddr
	m.nextAddr += n
	return base
}

// MarkLive/Unlive/IsLive track the dynamic-allocation set malloc/free use to
// detect double-free.
func (m *Memory) MarkLive(addr uint)   { m.live[addr] = true }
func (m *Memory) IsLive(addr uint) bool { return m.live[addr] }
func (m *Memory) Unlive(addr uint)     { delete(m.live, addr) }

// Declare allocates storage for a new variable of ctype in the current
// scope, binds name to its address, and leaves the slot at its default
// value.
func (m *Memory) Declare(ct ctype.CType, name string) uint {
	size := ct.SizeBytes()
	if size == 0 {
		size = 1
	}
	addr := m.Allocate(size)
	m.curScope().values[name] = slot{addr: addr}
	_ = m.raw.Store(addr, value.Default(ct))
	return addr
}

// DeclareConstant binds name directly to a value in the current scope, with
// no backing address.
func (m *Memory) DeclareConstant(name string, v Cell) {
	m.curScope().values[name] = slot{isConst: true, constVal: v}
}

// BindAddress binds name to an already-reserved address in the current
// scope, without storing a default value at it. Used for a struct-typed
// variable, whose layout (and so whose size) only the evaluator knows.
func (m *Memory) BindAddress(name string, addr uint) {
	m.curScope().values[name] = slot{addr: addr}
}

// Lookup resolves name from the innermost scope outward, falling back to
// global. Returns ok=false only if the semantic pass failed to reject an
// undeclared reference.
func (m *Memory) Lookup(name string) (Cell, bool) {
	if sc, ok := m.findScope(name); ok {
		sl := sc.values[name]
		if sl.isConst {
			return sl.constVal, true
		}
		v, _, err := m.raw.Load(sl.addr)
		if err != nil {
			return nil, false
		}
		return v, true
	}
	return nil, false
}

func (m *Memory) findScope(name string) (*Scope, bool) {
	if f := m.stack.top(); f != nil {
		if sc, ok := f.find(name); ok {
			return sc, true
		}
	}
	return m.global.find(name)
}

// GetAddress resolves name to its bound address; error if bound to a
// constant or undeclared.
func (m *Memory) GetAddress(name string) (uint, error) {
	sc, ok := m.findScope(name)
	if !ok {
		return 0, fmt.Errorf("memtable: %q not found in scope", name)
	}
	sl := sc.values[name]
	if sl.isConst {
		return 0, fmt.Errorf("memtable: %q is a constant, has no address", name)
	}
	return sl.addr, nil
}

// Load returns the value stored at address; an address never written reads
// back as a default int, per the uninitialized-read rule.
func (m *Memory) Load(addr uint) (Cell, error) {
	v, ok, err := m.raw.Load(addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return value.Default(ctype.IntType), nil
	}
	return v, nil
}

// Store writes value at address. A nil value is a programmer error in the
// evaluator, not a recoverable runtime condition.
func (m *Memory) Store(addr uint, v Cell) error {
	if v == nil {
		panic("memtable: Store called with nil value")
	}
	return m.raw.Store(addr, v)
}

// Free invalidates addr's "ever written" bit so a later load reads back as
// uninitialized and a repeat Free is observably a double-free, without
// shrinking the backing page (the teacher's paging model never releases
// pages once grown).
func (m *Memory) Free(addr uint) {
	m.raw.Forget(addr)
}

// Read resolves name and loads its value.
func (m *Memory) Read(name string) (Cell, error) {
	sc, ok := m.findScope(name)
	if !ok {
		return nil, fmt.Errorf("memtable: %q not found in scope", name)
	}
	sl := sc.values[name]
	if sl.isConst {
		return sl.constVal, nil
	}
	return m.Load(sl.addr)
}

// Write resolves name and stores value; writing a constant is a hard error.
func (m *Memory) Write(name string, v Cell) error {
	addr, err := m.GetAddress(name)
	if err != nil {
		return fmt.Errorf("memtable: cannot write to %q: %w", name, err)
	}
	return m.Store(addr, v)
}

// NewFrame pushes a function activation.
func (m *Memory) NewFrame(name string) { m.stack.push(name) }

// DelFrame pops the current function activation.
func (m *Memory) DelFrame() { m.stack.pop() }

// NewScope pushes a nested block scope within the current frame. A no-op at
// global scope (the spec's global scope never nests).
func (m *Memory) NewScope() {
	if f := m.stack.top(); f != nil {
		f.NewScope()
	}
}

// DelScope pops the current frame's innermost block scope.
func (m *Memory) DelScope() {
	if f := m.stack.top(); f != nil {
		f.DelScope()
	}
}

// InFunction reports whether a frame is active (vs. top-level global code).
func (m *Memory) InFunction() bool { return m.stack.top() != nil }
