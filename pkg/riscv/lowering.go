package riscv

import (
	"fmt"
	"strconv"

	"glang.dev/grc/pkg/symtab"
)

func isNumericLiteral(v string) bool {
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

func isTemp(v string) bool {
	return len(v) > 2 && v[0] == 'T' && v[1] == '_'
}

// tempSlot returns the frame-relative (sp-based) offset of a temporary,
// assigning one on first sight.
func (e *Emitter) tempSlot(name string) int {
	if off, ok := e.temps[name]; ok {
		return off
	}
	off := -(e.tempBase + wordSize*len(e.temps) + wordSize)
	e.temps[name] = off
	return off
}

// localVarSlot is the sp-relative offset of a declared variable in the
// scope that owns it.
func localVarSlot(entity *symtab.Entity) int {
	return -(entity.Offset + wordSize)
}

// paramSlot is the fp-relative offset of a declared parameter in the
// scope that owns it (spec.md §4.5 frame layout: -12, -16, -20, ...).
func paramSlot(entity *symtab.Entity) int {
	index := entity.Offset / wordSize
	return -(paramBase + wordSize*index)
}

// resolve locates v (an identifier, never a temp or literal) and reports
// whether it lives in the current frame.
func (e *Emitter) resolve(v string) (entity *symtab.Entity, owner *symtab.Scope, local bool) {
	entity, owner, found := e.table.LookupFrom(e.currentScope().ID, v)
	if !found {
		return nil, nil, false
	}
	return entity, owner, owner.Level == e.currentScope().Level
}

// gnlvcode chases the access-link chain from the current frame by the
// nesting-level difference between the reference and owner, returning a
// scratch register holding the address of owner's own frame base
// (spec.md §4.5, helper gnlvcode). avoid is a register already holding
// a live value this call must not clobber.
func (e *Emitter) gnlvcode(owner *symtab.Scope, avoid string) string {
	reg := regT1
	if avoid == regT1 {
		reg = regT2
	}

	levels := e.currentScope().Level - owner.Level
	fmt.Fprintf(&e.out, "\tlw %s,%d(sp)\n", reg, accessLinkOffset)
	for i := 1; i < levels; i++ {
		fmt.Fprintf(&e.out, "\tlw %s,%d(%s)\n", reg, accessLinkOffset, reg)
	}
	return reg
}

// loadvr loads operand v into register r, following spec.md §4.5: a
// numeric literal is an immediate, a temporary is spilled like a
// variable (see Emitter doc comment), anything else is an identifier
// resolved through the symbol table, local or non-local.
func (e *Emitter) loadvr(v, r string) {
	switch {
	case isNumericLiteral(v):
		fmt.Fprintf(&e.out, "\tli %s,%s\n", r, v)

	case isTemp(v):
		fmt.Fprintf(&e.out, "\tlw %s,%d(sp)\n", r, e.tempSlot(v))

	default:
		entity, owner, local := e.resolve(v)
		if entity == nil {
			fmt.Fprintf(&e.out, "\t# unresolved identifier %q\n", v)
			return
		}
		if local {
			fmt.Fprintf(&e.out, "\tlw %s,%d(%s)\n", r, localOrParamSlot(entity), frameReg(entity))
			return
		}
		base := e.gnlvcode(owner, r)
		fmt.Fprintf(&e.out, "\tlw %s,%d(%s)\n", r, localOrParamSlot(entity), base)
	}
}

// storerv is the write-side counterpart of loadvr; v must not be a
// numeric literal.
func (e *Emitter) storerv(r, v string) {
	switch {
	case isTemp(v):
		fmt.Fprintf(&e.out, "\tsw %s,%d(sp)\n", r, e.tempSlot(v))

	default:
		entity, owner, local := e.resolve(v)
		if entity == nil {
			fmt.Fprintf(&e.out, "\t# unresolved identifier %q\n", v)
			return
		}
		if local {
			fmt.Fprintf(&e.out, "\tsw %s,%d(%s)\n", r, localOrParamSlot(entity), frameReg(entity))
			return
		}
		base := e.gnlvcode(owner, r)
		fmt.Fprintf(&e.out, "\tsw %s,%d(%s)\n", r, localOrParamSlot(entity), base)
	}
}

func localOrParamSlot(entity *symtab.Entity) int {
	if entity.Kind == symtab.ParameterEntity {
		return paramSlot(entity)
	}
	return localVarSlot(entity)
}

func frameReg(entity *symtab.Entity) string {
	if entity.Kind == symtab.ParameterEntity {
		return "fp"
	}
	return "sp"
}

// relOp maps a relational quad's operator to its branch mnemonic
// (spec.md §4.5 "Per-op lowering").
func relOp(op string) string {
	switch op {
	case "<":
		return "blt"
	case "<=":
		return "ble"
	case ">":
		return "bgt"
	case ">=":
		return "bge"
	case "=":
		return "beq"
	case "<>":
		return "bne"
	default:
		return "beq"
	}
}

// arithMnemonic maps an arithmetic quad's operator to its RISC-V opcode.
func arithMnemonic(op string) string {
	switch op {
	case "+":
		return "add"
	case "-":
		return "sub"
	case "*":
		return "mul"
	case "/":
		return "div"
	default:
		return "add"
	}
}
