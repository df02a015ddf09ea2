// Package ir implements C4: the intermediate-code generator, producing
// the quadruple list via the classic next-quad / backpatch scheme
// (spec.md §4.4). Control-flow translation follows
// original_source/src/intermediate.py's IntermediateCodeGenerator /
// ExpressionProcessor / StatementProcessor exactly, generalized from
// Python's direct object references to an owned, append-only Go slice
// (spec.md §9: "the IR generator is the sole owner of that list during
// emission").
package ir

import (
	"fmt"
	"strconv"

	"glang.dev/grc/pkg/ast"
)

// Generator holds the mutable state threaded through one Emit call: the
// growing quad list and the next-temp counter. The next-quad counter is
// derived from len(quads), so there is nothing else to track.
type Generator struct {
	quads       []Quad
	tempCounter int
}

// funcCtx tracks, for the subprogram body currently being generated,
// whether an assignment to the subprogram's own name (its return slot)
// has been seen.
type funcCtx struct {
	name      string
	hasReturn bool
}

// Emit walks prog and returns its quadruple list (spec.md §4.4,
// "Program shell").
func Emit(prog *ast.Program) []Quad {
	g := &Generator{}

	g.emit("begin_block", prog.Name, Placeholder, Placeholder)
	for _, sub := range prog.Block.Subprograms {
		g.genSubprogram(sub)
	}
	g.genSequence(prog.Block.Body, nil)
	g.emit("halt", Placeholder, Placeholder, Placeholder)
	g.emit("end_block", prog.Name, Placeholder, Placeholder)

	return g.quads
}

func (g *Generator) nextQuad() int { return len(g.quads) }

func (g *Generator) newTemp() string {
	t := fmt.Sprintf("T_%d", g.tempCounter)
	g.tempCounter++
	return t
}

func (g *Generator) emit(op, arg1, arg2, result string) int {
	label := g.nextQuad()
	g.quads = append(g.quads, Quad{Label: label, Op: op, Arg1: arg1, Arg2: arg2, Result: result})
	return label
}

func makeList(label int) []int { return []int{label} }

func merge(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func (g *Generator) backpatch(holes []int, target int) {
	targetStr := strconv.Itoa(target)
	for _, l := range holes {
		g.quads[l].Result = targetStr
	}
}

// ----------------------------------------------------------------------------
// Subprograms

func (g *Generator) genSubprogram(sub ast.Node) {
	switch s := sub.(type) {
	case *ast.Function:
		g.genSubprogramBody(s.Name, s.Block.Subprograms, s.Block.Body)
	case *ast.Procedure:
		g.genSubprogramBody(s.Name, s.Block.Subprograms, s.Block.Body)
	}
}

func (g *Generator) genSubprogramBody(name string, nested []ast.Node, body *ast.Sequence) {
	g.emit("begin_block", name, Placeholder, Placeholder)
	for _, sub := range nested {
		g.genSubprogram(sub)
	}

	ctx := &funcCtx{name: name}
	g.genSequence(body, ctx)

	if ctx.hasReturn {
		g.emit("retv", name, Placeholder, Placeholder)
	} else {
		g.emit("ret", Placeholder, Placeholder, Placeholder)
	}
	g.emit("end_block", name, Placeholder, Placeholder)
}

// ----------------------------------------------------------------------------
// Statements

func (g *Generator) genSequence(seq *ast.Sequence, ctx *funcCtx) {
	for _, stmt := range seq.Statements {
		g.genStatement(stmt, ctx)
	}
}

func (g *Generator) genStatement(node ast.Node, ctx *funcCtx) {
	switch n := node.(type) {
	case *ast.Assignment:
		place := g.genExpression(n.Value)
		g.emit(":=", place, Placeholder, n.Target)
		if ctx != nil && n.Target == ctx.name {
			ctx.hasReturn = true
		}

	case *ast.IfStatement:
		g.genIf(n, ctx)

	case *ast.WhileStatement:
		g.genWhile(n, ctx)

	case *ast.DoWhileStatement:
		g.genDoWhile(n, ctx)

	case *ast.ForStatement:
		g.genFor(n, ctx)

	case *ast.InputStatement:
		g.emit("in", Placeholder, Placeholder, n.Name)

	case *ast.PrintStatement:
		place := g.genExpression(n.Value)
		g.emit("out", place, Placeholder, Placeholder)

	case *ast.CallStatement:
		g.genCallArgs(n.Actual)
		g.emit("call", n.Name, Placeholder, Placeholder)

	default:
		panic(fmt.Sprintf("ir: unhandled statement node %T", node))
	}
}

func (g *Generator) genIf(n *ast.IfStatement, ctx *funcCtx) {
	cond := g.genCondition(n.Condition)
	g.backpatch(cond.trueList, g.nextQuad())
	g.genSequence(n.Then, ctx)

	if n.Else != nil {
		skip := g.emit("jump", Placeholder, Placeholder, Placeholder)
		g.backpatch(cond.falseList, g.nextQuad())
		g.genSequence(n.Else, ctx)
		g.backpatch([]int{skip}, g.nextQuad())
		return
	}

	g.backpatch(cond.falseList, g.nextQuad())
}

func (g *Generator) genWhile(n *ast.WhileStatement, ctx *funcCtx) {
	start := g.nextQuad()
	cond := g.genCondition(n.Condition)
	g.backpatch(cond.trueList, g.nextQuad())
	g.genSequence(n.Body, ctx)
	g.emit("jump", Placeholder, Placeholder, strconv.Itoa(start))
	g.backpatch(cond.falseList, g.nextQuad())
}

func (g *Generator) genDoWhile(n *ast.DoWhileStatement, ctx *funcCtx) {
	start := g.nextQuad()
	g.genSequence(n.Body, ctx)
	cond := g.genCondition(n.Condition)
	g.backpatch(cond.falseList, start)
	g.backpatch(cond.trueList, g.nextQuad())
}

func (g *Generator) genFor(n *ast.ForStatement, ctx *funcCtx) {
	startPlace := g.genExpression(n.Start)
	g.emit(":=", startPlace, Placeholder, n.Var)

	loop := g.nextQuad()
	endPlace := g.genExpression(n.End)
	tcond := g.newTemp()
	g.emit("<=", n.Var, endPlace, tcond)
	exit := g.emit("jumpz", tcond, Placeholder, Placeholder)

	g.genSequence(n.Body, ctx)

	stepPlace := "1"
	if n.Step != nil {
		stepPlace = g.genExpression(n.Step)
	}
	tSum := g.newTemp()
	g.emit("+", n.Var, stepPlace, tSum)
	g.emit(":=", tSum, Placeholder, n.Var)
	g.emit("jump", Placeholder, Placeholder, strconv.Itoa(loop))

	g.backpatch([]int{exit}, g.nextQuad())
}

func (g *Generator) genCallArgs(actual []ast.ActualParam) {
	for _, a := range actual {
		if a.ByReference {
			g.emit("par", a.Name, "ref", Placeholder)
			continue
		}
		place := g.genExpression(a.Value)
		g.emit("par", place, "cv", Placeholder)
	}
}

// ----------------------------------------------------------------------------
// Expressions

func (g *Generator) genExpression(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Number:
		return n.Value

	case *ast.Identifier:
		if !n.IsCall {
			return n.Name
		}
		g.genCallArgs(n.Actual)
		ret := g.newTemp()
		g.emit("par", ret, "ret", Placeholder)
		g.emit("call", n.Name, Placeholder, Placeholder)
		return ret

	case *ast.ParenExpression:
		return g.genExpression(n.Inner)

	case *ast.UnaryMinus:
		v := g.genExpression(n.Value)
		t := g.newTemp()
		g.emit("-", "0", v, t)
		return t

	case *ast.BinaryOperation:
		left := g.genExpression(n.Left)
		right := g.genExpression(n.Right)
		t := g.newTemp()
		g.emit(n.Op, left, right, t)
		return t

	default:
		panic(fmt.Sprintf("ir: unhandled expression node %T", node))
	}
}

// ----------------------------------------------------------------------------
// Boolean expressions

// condResult carries the pending true/false label-hole lists described
// in spec.md §4.4.
type condResult struct {
	trueList  []int
	falseList []int
}

func (g *Generator) genCondition(node ast.Node) condResult {
	switch n := node.(type) {
	case *ast.Condition:
		result := g.genBoolTerm(n.Terms[0])
		for _, term := range n.Terms[1:] {
			g.backpatch(result.falseList, g.nextQuad())
			right := g.genBoolTerm(term)
			result = condResult{trueList: merge(result.trueList, right.trueList), falseList: right.falseList}
		}
		return result

	default:
		return g.genBoolTerm(node)
	}
}

func (g *Generator) genBoolTerm(node ast.Node) condResult {
	n, ok := node.(*ast.BoolTerm)
	if !ok {
		return g.genBoolFactor(node)
	}

	result := g.genBoolFactor(n.Factors[0])
	for _, factor := range n.Factors[1:] {
		g.backpatch(result.trueList, g.nextQuad())
		right := g.genBoolFactor(factor)
		result = condResult{trueList: right.trueList, falseList: merge(result.falseList, right.falseList)}
	}
	return result
}

func (g *Generator) genBoolFactor(node ast.Node) condResult {
	switch n := node.(type) {
	case *ast.Comparison:
		left := g.genExpression(n.Left)
		right := g.genExpression(n.Right)
		trueLabel := g.emit(n.Op, left, right, Placeholder)
		falseLabel := g.emit("jump", Placeholder, Placeholder, Placeholder)
		return condResult{trueList: makeList(trueLabel), falseList: makeList(falseLabel)}

	case *ast.Not:
		inner := g.genCondition(n.Condition)
		return condResult{trueList: inner.falseList, falseList: inner.trueList}

	case *ast.ParenCondition:
		return g.genCondition(n.Inner)

	default:
		panic(fmt.Sprintf("ir: unhandled condition node %T", node))
	}
}
