package riscv

import (
	"fmt"

	"glang.dev/grc/pkg/ir"
)

// emitProgram renders the '.text' (and, when needed, '.data') sections
// for the full quadruple list, one quad per iteration, each preceded by
// its 'Lk:' assembly label (spec.md §4.5, "Quadruple labels are
// lowered to assembly labels of the form Lk").
func (e *Emitter) emitProgram(quads []ir.Quad) {
	fmt.Fprintf(&e.out, ".text\n")
	for _, q := range quads {
		fmt.Fprintf(&e.out, "L%d:\n", q.Label)
		e.emitQuad(q)
	}

	if e.useData {
		fmt.Fprintf(&e.out, ".data\n")
		fmt.Fprintf(&e.out, "str_nl: .asciz \"\\n\"\n")
	}
}

func (e *Emitter) emitQuad(q ir.Quad) {
	switch q.Op {
	case "begin_block":
		e.emitBeginBlock(q.Arg1)
	case "end_block":
		e.emitEndBlock(q.Arg1)
	case ":=":
		e.loadvr(q.Arg1, regT0)
		e.storerv(regT0, q.Result)
	case "+", "-", "*", "/":
		e.loadvr(q.Arg1, regT0)
		e.loadvr(q.Arg2, regT1)
		fmt.Fprintf(&e.out, "\t%s %s,%s,%s\n", arithMnemonic(q.Op), regT2, regT0, regT1)
		e.storerv(regT2, q.Result)
	case "<", "<=", ">", ">=", "=", "<>":
		e.loadvr(q.Arg1, regT0)
		e.loadvr(q.Arg2, regT1)
		fmt.Fprintf(&e.out, "\t%s %s,%s,L%s\n", relOp(q.Op), regT0, regT1, q.Result)
	case "jump":
		fmt.Fprintf(&e.out, "\tj L%s\n", q.Result)
	case "jumpz":
		e.loadvr(q.Arg1, regT0)
		fmt.Fprintf(&e.out, "\tbeqz %s,L%s\n", regT0, q.Result)
	case "jumpnz":
		e.loadvr(q.Arg1, regT0)
		fmt.Fprintf(&e.out, "\tbnez %s,L%s\n", regT0, q.Result)
	case "par":
		e.emitPar(q)
	case "call":
		e.emitCall(q.Arg1)
	case "retv":
		e.loadvr(q.Arg1, regT0)
		fmt.Fprintf(&e.out, "\tlw %s,%d(sp)\n", regT1, retSlotOffset)
		fmt.Fprintf(&e.out, "\tsw %s,0(%s)\n", regT0, regT1)
	case "ret":
		// no-op beyond the end_block epilogue; nothing to transmit.
	case "in":
		fmt.Fprintf(&e.out, "\tli a7,5\n\tecall\n")
		e.storerv("a0", q.Result)
	case "out":
		e.loadvr(q.Arg1, "a0")
		fmt.Fprintf(&e.out, "\tli a7,1\n\tecall\n")
		fmt.Fprintf(&e.out, "\tla a0,str_nl\n\tli a7,4\n\tecall\n")
	case "halt":
		fmt.Fprintf(&e.out, "\tli a7,10\n\tecall\n")
	default:
		fmt.Fprintf(&e.out, "\t# unhandled quad op %q\n", q.Op)
	}
}

func (e *Emitter) emitBeginBlock(name string) {
	fmt.Fprintf(&e.out, "%s:\n", name)
	e.pushScope(name)

	if e.isMain() {
		fmt.Fprintf(&e.out, "\taddi sp,sp,%d\n\tmv gp,sp\n", frameLength)
		return
	}
	fmt.Fprintf(&e.out, "\tsw ra,0(sp)\n\taddi fp,sp,%d\n", frameLength)
}

func (e *Emitter) emitEndBlock(name string) {
	if e.isMain() {
		fmt.Fprintf(&e.out, "\tli a7,10\n\tecall\n")
	} else {
		fmt.Fprintf(&e.out, "\tlw ra,0(sp)\n\tjr ra\n")
	}
	e.popScope()
}

// emitPar lowers the three 'par' flavors (spec.md §4.5): pass by value,
// pass by reference, and declare the callee's return-value slot. cv/ref
// consume the next parameter slot in the about-to-be-built callee frame
// (addressed through fp, per the par/call convention); ret always
// targets the fixed -8(fp) slot and does not advance that count.
func (e *Emitter) emitPar(q ir.Quad) {
	switch q.Arg2 {
	case "cv":
		e.loadvr(q.Arg1, regT0)
		fmt.Fprintf(&e.out, "\tsw %s,%d(fp)\n", regT0, -(paramBase + wordSize*e.parIndex))
		e.parIndex++

	case "ref":
		e.addressOf(q.Arg1, regT0)
		fmt.Fprintf(&e.out, "\tsw %s,%d(fp)\n", regT0, -(paramBase + wordSize*e.parIndex))
		e.parIndex++

	case "ret":
		e.addressOf(q.Arg1, regT0)
		fmt.Fprintf(&e.out, "\tsw %s,%d(fp)\n", regT0, retSlotOffset)
	}
}

// addressOf computes the address (not the value) of v into r, used by
// 'par ... ref' and 'par ... ret'.
func (e *Emitter) addressOf(v, r string) {
	if isTemp(v) {
		fmt.Fprintf(&e.out, "\taddi %s,sp,%d\n", r, e.tempSlot(v))
		return
	}

	entity, owner, local := e.resolve(v)
	if entity == nil {
		fmt.Fprintf(&e.out, "\t# unresolved identifier %q\n", v)
		return
	}
	if local {
		fmt.Fprintf(&e.out, "\taddi %s,%s,%d\n", r, frameReg(entity), localOrParamSlot(entity))
		return
	}
	base := e.gnlvcode(owner, r)
	fmt.Fprintf(&e.out, "\taddi %s,%s,%d\n", r, base, localOrParamSlot(entity))
}

// emitCall lowers a 'call' quad: maintain the access-link chain, bump
// the stack by one frame, branch and link, then unwind (spec.md §4.5).
// Same-level calls (callee shares the caller's lexical parent, i.e. a
// sibling subprogram) copy the caller's own link forward; calls into a
// directly nested subprogram instead link to the caller's own frame.
func (e *Emitter) emitCall(name string) {
	callee, ok := e.table.ScopeByName(name)
	if ok && callee.Parent == e.currentScope().Parent {
		fmt.Fprintf(&e.out, "\tlw %s,%d(sp)\n", regT0, accessLinkOffset)
		fmt.Fprintf(&e.out, "\tsw %s,%d(fp)\n", regT0, accessLinkOffset)
	} else {
		fmt.Fprintf(&e.out, "\tsw sp,%d(fp)\n", accessLinkOffset)
	}

	fmt.Fprintf(&e.out, "\taddi sp,sp,%d\n\tjal %s\n\taddi sp,sp,-%d\n", frameLength, name, frameLength)
	e.parIndex = 0
}
