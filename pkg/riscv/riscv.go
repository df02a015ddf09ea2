// Package riscv implements C5: the RISC-V code emitter. It walks the
// quadruple list produced by pkg/ir and, resolving every operand through
// the symbol table built by pkg/symtab, renders a plain-text assembly
// listing (spec.md §4.5).
//
// The shape follows a single CodeGenerator-like type holding the
// program and its symbol table, walking the instruction list once and
// dispatching per opcode through translation tables, producing a
// RISC-V text listing with labels, frames and access links instead of
// flat binary instructions.
package riscv

import (
	"strings"

	"glang.dev/grc/pkg/ir"
	"glang.dev/grc/pkg/symtab"
)

// frameLength is the fixed activation-record size every subprogram owns
// (spec.md §4.5).
const frameLength = 64

// wordSize matches the spacing pkg/symtab uses between entity offsets.
const wordSize = 4

// paramBase is the fp-relative offset of the first actual-parameter
// slot; ra, the access link and the return-value pointer occupy the
// three word-sized slots above it (spec.md §4.5 frame layout table).
const paramBase = 12

// accessLinkOffset is the frame-relative offset of the dynamic/access
// link slot.
const accessLinkOffset = -4

// retSlotOffset is the frame-relative offset of the pointer-to-return-
// value slot.
const retSlotOffset = -8

// Scratch registers. Every operation re-loads its operands into these
// rather than keeping a value live across quads (spec.md §4.5,
// "Register allocation").
const (
	regT0 = "t0"
	regT1 = "t1"
	regT2 = "t2"
)

// Emitter renders one quadruple list. It is the sole owner of its output
// buffer and of the bookkeeping needed to resolve an operand to a frame
// offset: the stack of scopes entered via begin_block/end_block, and the
// per-scope map from temporary name to its spill offset.
//
// Design choice (spec.md §9 "Register allocation in the emitter" allows
// any allocator that preserves operand values across one quad's
// lowering): temporaries are spilled to memory exactly like declared
// variables rather than kept register-resident, so that a `par t ret`
// quad can compute a stable address for T_ret. The three scratch
// registers are reserved purely for the arithmetic/addressing of the
// quad currently being lowered.
type Emitter struct {
	table *symtab.Table
	out   strings.Builder

	scopes   []*symtab.Scope
	temps    map[string]int // temp name -> frame offset; reset on begin_block, kept on end_block
	tempBase int            // first free offset below the declared locals of the last scope entered
	parIndex int            // count of `par ... cv|ref` seen since the last call
	useData  bool
}

// Render is the C5 entrypoint: quads + symbol table -> assembly text.
func Render(quads []ir.Quad, table *symtab.Table) string {
	e := &Emitter{table: table, temps: map[string]int{}}
	e.useData = needsNewlineLiteral(quads)
	e.emitProgram(quads)
	return e.out.String()
}

func needsNewlineLiteral(quads []ir.Quad) bool {
	for _, q := range quads {
		if q.Op == "out" {
			return true
		}
	}
	return false
}

func (e *Emitter) currentScope() *symtab.Scope {
	return e.scopes[len(e.scopes)-1]
}

func (e *Emitter) pushScope(name string) {
	var scope *symtab.Scope
	if len(e.scopes) == 0 {
		scope = e.table.Global()
	} else if s, ok := e.table.ScopeByName(name); ok {
		scope = s
	} else {
		scope = e.table.Global()
	}
	e.scopes = append(e.scopes, scope)
	e.temps = map[string]int{}
	e.tempBase = scope.NextOffset()
	e.parIndex = 0
}

func (e *Emitter) popScope() {
	e.scopes = e.scopes[:len(e.scopes)-1]
}

func (e *Emitter) isMain() bool {
	return len(e.scopes) == 1
}
