// Package symtab implements C3: the scope-aware symbol-table builder
// (spec.md §4.3). The scope tree is naturally cyclic (parent <-> children),
// so it is modeled as an arena of scopes indexed by integer IDs rather
// than as Go pointers with parent back-references (spec.md §9, "Cyclic
// ownership").
package symtab

import (
	"glang.dev/grc/pkg/ast"
	"glang.dev/grc/pkg/diag"
	"glang.dev/grc/pkg/utils"
)

// EntityKind classifies a symbol-table entity.
type EntityKind uint8

const (
	ProgramEntity EntityKind = iota
	VariableEntity
	ParameterEntity
	FunctionEntity
	ProcedureEntity
)

// wordSize is the machine word size used to space entity offsets within
// an activation record (spec.md §4.3: "increases by the machine word
// size (4 bytes)").
const wordSize = 4

// Entity is one declared name: (name, kind, scope-level, offset, parameters).
type Entity struct {
	Name       string
	Kind       EntityKind
	ScopeLevel int
	Offset     int
	Parameters []string // ordered parameter names; empty for non-subprograms
}

// Scope is (name, level, parent?, entities, next-offset). ScopeID -1
// marks "no parent" (the global scope).
type Scope struct {
	ID         int
	Name       string
	Level      int
	Parent     int
	Entities   map[string]*Entity
	order      []string // declaration order, for deterministic dumps
	nextOffset int
}

// Table is the arena of all scopes produced by Build, plus every
// SymbolWarning logged along the way (non-fatal per spec.md §7).
type Table struct {
	Scopes   []*Scope
	Warnings []*diag.SymbolWarning
	current  int
	stack    utils.Stack[int] // scope-ID stack tracking the active nesting path during Build
}

// New returns a Table containing only the global (level 0) scope.
func New() *Table {
	t := &Table{}
	t.pushNewScope("global", -1)
	return t
}

func (t *Table) pushNewScope(name string, parent int) int {
	id := len(t.Scopes)
	level := 0
	if parent >= 0 {
		level = t.Scopes[parent].Level + 1
	}
	t.Scopes = append(t.Scopes, &Scope{ID: id, Name: name, Level: level, Parent: parent, Entities: map[string]*Entity{}})
	t.current = id
	t.stack.Push(id)
	return id
}

// EnterScope creates a new child scope of the current scope and makes it current.
func (t *Table) EnterScope(name string) int {
	return t.pushNewScope(name, t.current)
}

// ExitScope restores the parent of the current scope as current.
func (t *Table) ExitScope() {
	if _, err := t.stack.Pop(); err != nil {
		return
	}
	if id, err := t.stack.Top(); err == nil {
		t.current = id
	}
}

// Current returns the scope currently being populated.
func (t *Table) Current() *Scope { return t.Scopes[t.current] }

// Global returns the program's top-level (level 0) scope.
func (t *Table) Global() *Scope { return t.Scopes[0] }

// ScopeByName returns the first non-global scope named name — every
// function/procedure body owns exactly one scope named after itself.
func (t *Table) ScopeByName(name string) (*Scope, bool) {
	for _, s := range t.Scopes[1:] {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// LookupFrom walks the parent chain starting at scopeID, the public
// counterpart of the current-scope-bound Lookup, used by code
// generation once it is tracking its own notion of "current scope"
// while replaying the quad list.
func (t *Table) LookupFrom(scopeID int, name string) (*Entity, *Scope, bool) {
	return t.lookupFrom(scopeID, name, false)
}

// NextOffset reports the offset the next Insert into this scope would
// receive; code generation uses it as the base for spill slots it
// allocates beyond the declared variables (e.g. the return-value slot
// backing a "par t ret" quad).
func (s *Scope) NextOffset() int { return s.nextOffset }

// Insert adds name to the current scope with the given kind and
// parameter list. Re-declaration in the same scope is idempotent: the
// first entity wins and a SymbolWarning is appended to t.Warnings.
func (t *Table) Insert(name string, kind EntityKind, params []string) *Entity {
	scope := t.Current()
	if existing, found := scope.Entities[name]; found {
		t.Warnings = append(t.Warnings, &diag.SymbolWarning{Name: name, ScopeName: scope.Name, ScopeLevel: scope.Level})
		return existing
	}

	entity := &Entity{Name: name, Kind: kind, ScopeLevel: scope.Level, Offset: scope.nextOffset, Parameters: params}
	scope.Entities[name] = entity
	scope.order = append(scope.order, name)
	scope.nextOffset += wordSize
	return entity
}

// Lookup walks the parent chain starting at the current scope and
// returns the first match together with the scope that owns it.
func (t *Table) Lookup(name string) (*Entity, *Scope, bool) {
	return t.lookupFrom(t.current, name, false)
}

// LookupInCurrentScope restricts the search to the current scope only.
func (t *Table) LookupInCurrentScope(name string) (*Entity, *Scope, bool) {
	return t.lookupFrom(t.current, name, true)
}

func (t *Table) lookupFrom(scopeID int, name string, currentOnly bool) (*Entity, *Scope, bool) {
	for id := scopeID; id >= 0; {
		scope := t.Scopes[id]
		if entity, found := scope.Entities[name]; found {
			return entity, scope, true
		}
		if currentOnly {
			break
		}
		id = scope.Parent
	}
	return nil, nil, false
}

// Build walks prog depth-first and returns the fully populated Table,
// following the rules of spec.md §4.3.
func Build(prog *ast.Program) *Table {
	t := New()
	t.Insert(prog.Name, ProgramEntity, nil)
	buildBlockDecls(t, prog.Block.Declarations)
	buildSubprograms(t, prog.Block.Subprograms)
	return t
}

func buildBlockDecls(t *Table, names []string) {
	for _, name := range names {
		t.Insert(name, VariableEntity, nil)
	}
}

func buildSubprograms(t *Table, subs []ast.Node) {
	for _, sub := range subs {
		switch s := sub.(type) {
		case *ast.Function:
			t.Insert(s.Name, FunctionEntity, s.Params)
			t.EnterScope(s.Name)
			for _, param := range s.Params {
				t.Insert(param, ParameterEntity, nil)
			}
			buildBlockDecls(t, s.Block.Input)
			buildBlockDecls(t, s.Block.Output)
			buildBlockDecls(t, s.Block.Declarations)
			buildSubprograms(t, s.Block.Subprograms)
			t.ExitScope()
		case *ast.Procedure:
			t.Insert(s.Name, ProcedureEntity, s.Params)
			t.EnterScope(s.Name)
			for _, param := range s.Params {
				t.Insert(param, ParameterEntity, nil)
			}
			buildBlockDecls(t, s.Block.Input)
			buildBlockDecls(t, s.Block.Output)
			buildBlockDecls(t, s.Block.Declarations)
			buildSubprograms(t, s.Block.Subprograms)
			t.ExitScope()
		}
	}
}
