// Package parser implements C2: a hand-written LL(1) recursive-descent
// parser over the token stream of pkg/lexer, producing the AST of
// pkg/ast per the grammar in spec.md §4.2.
//
// The grammar is a fixed-production recursive descent with one-token
// lookahead; a parser-combinator library (as the teacher uses for its
// Jack/VM grammars) buys nothing here since every production is chosen
// by the current keyword alone, so this follows
// original_source/src/parser.py's shape instead: one method per
// production, consuming tokens directly.
package parser

import (
	"fmt"

	"glang.dev/grc/pkg/ast"
	"glang.dev/grc/pkg/diag"
	"glang.dev/grc/pkg/token"
)

// closingKeywords terminates a sequence without requiring a trailing
// statement after ';' (spec.md §4.2, "Sequence-terminator heuristic").
var closingKeywords = map[string]bool{
	"τέλος_προγράμματος": true, "τέλος_συνάρτησης": true,
	"τέλος_διαδικασίας": true, "αλλιώς": true, "εάν_τέλος": true,
	"όσο_τέλος": true, "για_τέλος": true, "μέχρι": true,
}

// Parser walks a fixed token slice and builds an *ast.Program, failing
// fast with a *diag.SyntaxError on the first mismatch.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New returns a Parser over tokens (typically pkg/lexer's output with
// comments already stripped).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) isKeyword(lexeme string) bool {
	return p.cur().Kind == token.Keyword && p.cur().Lexeme == lexeme
}

func (p *Parser) expectKeyword(lexeme string) error {
	if !p.isKeyword(lexeme) {
		return p.errorf("expected keyword %q", lexeme)
	}
	p.advance()
	return nil
}

func (p *Parser) expectKind(kind token.Kind, what string) (token.Token, error) {
	if p.cur().Kind != kind {
		return token.Token{}, p.errorf("expected %s", what)
	}
	return p.advance(), nil
}

func (p *Parser) expectLexeme(kind token.Kind, lexeme string) error {
	if p.cur().Kind != kind || p.cur().Lexeme != lexeme {
		return p.errorf("expected %q", lexeme)
	}
	p.advance()
	return nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return &diag.SyntaxError{
		Line:    p.cur().Line,
		Message: fmt.Sprintf(format, args...),
		Lexeme:  p.cur().Lexeme,
	}
}

// Parse runs the parser to completion and returns the root node.
func (p *Parser) Parse() (*ast.Program, error) {
	return p.parseProgram()
}

// program := 'πρόγραμμα' ID programblock
func (p *Parser) parseProgram() (*ast.Program, error) {
	line := p.cur().Line
	if err := p.expectKeyword("πρόγραμμα"); err != nil {
		return nil, err
	}
	id, err := p.expectKind(token.Identifier, "program name")
	if err != nil {
		return nil, err
	}
	block, err := p.parseProgramBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Program{Name: id.Lexeme, Line: line, Block: block}, nil
}

// programblock := declarations subprograms 'αρχή_προγράμματος' sequence 'τέλος_προγράμματος'
func (p *Parser) parseProgramBlock() (*ast.ProgramBlock, error) {
	decls, err := p.parseDeclarations()
	if err != nil {
		return nil, err
	}
	subs, err := p.parseSubprograms()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("αρχή_προγράμματος"); err != nil {
		return nil, err
	}
	seq, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("τέλος_προγράμματος"); err != nil {
		return nil, err
	}
	return &ast.ProgramBlock{Declarations: decls, Subprograms: subs, Body: seq}, nil
}

// declarations := ( 'δήλωση' varlist )*
func (p *Parser) parseDeclarations() ([]string, error) {
	var names []string
	for p.isKeyword("δήλωση") {
		p.advance()
		vars, err := p.parseVarList()
		if err != nil {
			return nil, err
		}
		names = append(names, vars...)
	}
	return names, nil
}

// varlist := ID ( ',' ID )*
func (p *Parser) parseVarList() ([]string, error) {
	first, err := p.expectKind(token.Identifier, "identifier")
	if err != nil {
		return nil, err
	}
	names := []string{first.Lexeme}
	for p.cur().Kind == token.Separator && p.cur().Lexeme == "," {
		p.advance()
		id, err := p.expectKind(token.Identifier, "identifier")
		if err != nil {
			return nil, err
		}
		names = append(names, id.Lexeme)
	}
	return names, nil
}

// subprograms := ( func | proc )*
func (p *Parser) parseSubprograms() ([]ast.Node, error) {
	var subs []ast.Node
	for p.isKeyword("συνάρτηση") || p.isKeyword("διαδικασία") {
		if p.isKeyword("συνάρτηση") {
			fn, err := p.parseFunc()
			if err != nil {
				return nil, err
			}
			subs = append(subs, fn)
		} else {
			proc, err := p.parseProc()
			if err != nil {
				return nil, err
			}
			subs = append(subs, proc)
		}
	}
	return subs, nil
}

// func := 'συνάρτηση' ID '(' formalparlist ')' funcblock
func (p *Parser) parseFunc() (*ast.Function, error) {
	line := p.cur().Line
	p.advance() // 'συνάρτηση'
	id, err := p.expectKind(token.Identifier, "function name")
	if err != nil {
		return nil, err
	}
	if err := p.expectLexeme(token.Grouping, "("); err != nil {
		return nil, err
	}
	params, err := p.parseFormalParList()
	if err != nil {
		return nil, err
	}
	if err := p.expectLexeme(token.Grouping, ")"); err != nil {
		return nil, err
	}
	block, err := p.parseFuncBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Name: id.Lexeme, Line: line, Params: params, Block: block}, nil
}

// proc := 'διαδικασία' ID '(' formalparlist ')' procblock
func (p *Parser) parseProc() (*ast.Procedure, error) {
	line := p.cur().Line
	p.advance() // 'διαδικασία'
	id, err := p.expectKind(token.Identifier, "procedure name")
	if err != nil {
		return nil, err
	}
	if err := p.expectLexeme(token.Grouping, "("); err != nil {
		return nil, err
	}
	params, err := p.parseFormalParList()
	if err != nil {
		return nil, err
	}
	if err := p.expectLexeme(token.Grouping, ")"); err != nil {
		return nil, err
	}
	block, err := p.parseProcBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Procedure{Name: id.Lexeme, Line: line, Params: params, Block: block}, nil
}

// formalparlist := varlist | ε
func (p *Parser) parseFormalParList() ([]string, error) {
	if p.cur().Kind != token.Identifier {
		return nil, nil
	}
	return p.parseVarList()
}

// funcblock := 'διαπροσωπεία' funcinput funcoutput declarations subprograms
//
//	'αρχή_συνάρτησης' sequence 'τέλος_συνάρτησης'
func (p *Parser) parseFuncBlock() (*ast.FuncBlock, error) {
	if err := p.expectKeyword("διαπροσωπεία"); err != nil {
		return nil, err
	}
	in, err := p.parseFuncInput()
	if err != nil {
		return nil, err
	}
	out, err := p.parseFuncOutput()
	if err != nil {
		return nil, err
	}
	decls, err := p.parseDeclarations()
	if err != nil {
		return nil, err
	}
	subs, err := p.parseSubprograms()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("αρχή_συνάρτησης"); err != nil {
		return nil, err
	}
	seq, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("τέλος_συνάρτησης"); err != nil {
		return nil, err
	}
	return &ast.FuncBlock{Input: in, Output: out, Declarations: decls, Subprograms: subs, Body: seq}, nil
}

// procblock := 'διαπροσωπεία' funcinput funcoutput declarations subprograms
//
//	'αρχή_διαδικασίας' sequence 'τέλος_διαδικασίας'
func (p *Parser) parseProcBlock() (*ast.ProcBlock, error) {
	if err := p.expectKeyword("διαπροσωπεία"); err != nil {
		return nil, err
	}
	in, err := p.parseFuncInput()
	if err != nil {
		return nil, err
	}
	out, err := p.parseFuncOutput()
	if err != nil {
		return nil, err
	}
	decls, err := p.parseDeclarations()
	if err != nil {
		return nil, err
	}
	subs, err := p.parseSubprograms()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("αρχή_διαδικασίας"); err != nil {
		return nil, err
	}
	seq, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("τέλος_διαδικασίας"); err != nil {
		return nil, err
	}
	return &ast.ProcBlock{Input: in, Output: out, Declarations: decls, Subprograms: subs, Body: seq}, nil
}

// funcinput := 'είσοδος' varlist | ε
func (p *Parser) parseFuncInput() ([]string, error) {
	if !p.isKeyword("είσοδος") {
		return nil, nil
	}
	p.advance()
	return p.parseVarList()
}

// funcoutput := 'έξοδος' varlist | ε
func (p *Parser) parseFuncOutput() ([]string, error) {
	if !p.isKeyword("έξοδος") {
		return nil, nil
	}
	p.advance()
	return p.parseVarList()
}

// sequence := statement ( ';' statement )*
//
// Applies the sequence-terminator heuristic: a trailing ';' right
// before a block-closing keyword ends the sequence early.
func (p *Parser) parseSequence() (*ast.Sequence, error) {
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmts := []ast.Node{stmt}

	for p.cur().Kind == token.Separator && p.cur().Lexeme == ";" {
		p.advance()
		if p.cur().Kind == token.Keyword && closingKeywords[p.cur().Lexeme] {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	return &ast.Sequence{Statements: stmts}, nil
}

// statement := assignment | if | while | do | for | input | print | call
func (p *Parser) parseStatement() (ast.Node, error) {
	switch {
	case p.cur().Kind == token.Identifier:
		return p.parseAssignment()
	case p.isKeyword("εάν"):
		return p.parseIf()
	case p.isKeyword("όσο"):
		return p.parseWhile()
	case p.isKeyword("επανάλαβε"):
		return p.parseDo()
	case p.isKeyword("για"):
		return p.parseFor()
	case p.isKeyword("διάβασε"):
		return p.parseInput()
	case p.isKeyword("γράψε"):
		return p.parsePrint()
	case p.isKeyword("εκτέλεσε"):
		return p.parseCall()
	default:
		return nil, p.errorf("expected a statement")
	}
}

// assignment := ID ':=' expression
func (p *Parser) parseAssignment() (ast.Node, error) {
	id := p.advance()
	if err := p.expectLexeme(token.Assignment, ":="); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Line: id.Line, Target: id.Lexeme, Value: value}, nil
}

// if := 'εάν' condition 'τότε' sequence ( 'αλλιώς' sequence )? 'εάν_τέλος'
func (p *Parser) parseIf() (ast.Node, error) {
	line := p.cur().Line
	p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("τότε"); err != nil {
		return nil, err
	}
	then, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	var els *ast.Sequence
	if p.isKeyword("αλλιώς") {
		p.advance()
		els, err = p.parseSequence()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword("εάν_τέλος"); err != nil {
		return nil, err
	}
	return &ast.IfStatement{Line: line, Condition: cond, Then: then, Else: els}, nil
}

// while := 'όσο' condition 'επανάλαβε' sequence 'όσο_τέλος'
func (p *Parser) parseWhile() (ast.Node, error) {
	line := p.cur().Line
	p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("επανάλαβε"); err != nil {
		return nil, err
	}
	body, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("όσο_τέλος"); err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Line: line, Condition: cond, Body: body}, nil
}

// do := 'επανάλαβε' sequence 'μέχρι' condition
func (p *Parser) parseDo() (ast.Node, error) {
	line := p.cur().Line
	p.advance()
	body, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("μέχρι"); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	return &ast.DoWhileStatement{Line: line, Body: body, Condition: cond}, nil
}

// for := 'για' ID ':=' expression 'έως' expression step 'επανάλαβε' sequence 'για_τέλος'
func (p *Parser) parseFor() (ast.Node, error) {
	line := p.cur().Line
	p.advance()
	id, err := p.expectKind(token.Identifier, "loop variable")
	if err != nil {
		return nil, err
	}
	if err := p.expectLexeme(token.Assignment, ":="); err != nil {
		return nil, err
	}
	start, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("έως"); err != nil {
		return nil, err
	}
	end, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	step, err := p.parseStep()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("επανάλαβε"); err != nil {
		return nil, err
	}
	body, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("για_τέλος"); err != nil {
		return nil, err
	}
	return &ast.ForStatement{Line: line, Var: id.Lexeme, Start: start, End: end, Step: step, Body: body}, nil
}

// step := 'με_βήμα' expression | ε
func (p *Parser) parseStep() (ast.Node, error) {
	if !p.isKeyword("με_βήμα") {
		return nil, nil
	}
	p.advance()
	return p.parseExpression()
}

// input := 'διάβασε' ID
func (p *Parser) parseInput() (ast.Node, error) {
	line := p.cur().Line
	p.advance()
	id, err := p.expectKind(token.Identifier, "identifier")
	if err != nil {
		return nil, err
	}
	return &ast.InputStatement{Line: line, Name: id.Lexeme}, nil
}

// print := 'γράψε' expression
func (p *Parser) parsePrint() (ast.Node, error) {
	line := p.cur().Line
	p.advance()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.PrintStatement{Line: line, Value: value}, nil
}

// call := 'εκτέλεσε' ID idtail
func (p *Parser) parseCall() (ast.Node, error) {
	line := p.cur().Line
	p.advance()
	id, err := p.expectKind(token.Identifier, "callee name")
	if err != nil {
		return nil, err
	}
	actual, _, err := p.parseIdTail()
	if err != nil {
		return nil, err
	}
	return &ast.CallStatement{Line: line, Name: id.Lexeme, Actual: actual}, nil
}

// idtail := '(' actualparlist ')' | ε
//
// Returns hasParens=true whenever '(' was present, even for a
// zero-argument call, so callers can distinguish a bare identifier
// from a call with no actual parameters.
func (p *Parser) parseIdTail() ([]ast.ActualParam, bool, error) {
	if !(p.cur().Kind == token.Grouping && p.cur().Lexeme == "(") {
		return nil, false, nil
	}
	p.advance()
	actual, err := p.parseActualParList()
	if err != nil {
		return nil, false, err
	}
	if err := p.expectLexeme(token.Grouping, ")"); err != nil {
		return nil, false, err
	}
	return actual, true, nil
}

// actualparlist := ( actualparitem ( ',' actualparitem )* )?
func (p *Parser) parseActualParList() ([]ast.ActualParam, error) {
	if p.cur().Kind == token.Grouping && p.cur().Lexeme == ")" {
		return nil, nil
	}
	first, err := p.parseActualParItem()
	if err != nil {
		return nil, err
	}
	items := []ast.ActualParam{first}
	for p.cur().Kind == token.Separator && p.cur().Lexeme == "," {
		p.advance()
		item, err := p.parseActualParItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// actualparitem := expression | '%' ID
func (p *Parser) parseActualParItem() (ast.ActualParam, error) {
	if p.cur().Kind == token.ReferenceMarker {
		p.advance()
		id, err := p.expectKind(token.Identifier, "reference parameter")
		if err != nil {
			return ast.ActualParam{}, err
		}
		return ast.ActualParam{ByReference: true, Name: id.Lexeme}, nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return ast.ActualParam{}, err
	}
	return ast.ActualParam{Value: value}, nil
}

// condition := boolterm ( 'ή' boolterm )*
func (p *Parser) parseCondition() (ast.Node, error) {
	line := p.cur().Line
	first, err := p.parseBoolTerm()
	if err != nil {
		return nil, err
	}
	terms := []ast.Node{first}
	for p.isKeyword("ή") {
		p.advance()
		term, err := p.parseBoolTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return &ast.Condition{Line: line, Terms: terms}, nil
}

// boolterm := boolfactor ( 'και' boolfactor )*
func (p *Parser) parseBoolTerm() (ast.Node, error) {
	line := p.cur().Line
	first, err := p.parseBoolFactor()
	if err != nil {
		return nil, err
	}
	factors := []ast.Node{first}
	for p.isKeyword("και") {
		p.advance()
		factor, err := p.parseBoolFactor()
		if err != nil {
			return nil, err
		}
		factors = append(factors, factor)
	}
	return &ast.BoolTerm{Line: line, Factors: factors}, nil
}

// boolfactor := 'όχι' '[' condition ']' | '[' condition ']' | expression relop expression
func (p *Parser) parseBoolFactor() (ast.Node, error) {
	line := p.cur().Line

	if p.isKeyword("όχι") {
		p.advance()
		if err := p.expectLexeme(token.Grouping, "["); err != nil {
			return nil, err
		}
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		if err := p.expectLexeme(token.Grouping, "]"); err != nil {
			return nil, err
		}
		return &ast.Not{Line: line, Condition: cond}, nil
	}

	if p.cur().Kind == token.Grouping && p.cur().Lexeme == "[" {
		p.advance()
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		if err := p.expectLexeme(token.Grouping, "]"); err != nil {
			return nil, err
		}
		return &ast.ParenCondition{Inner: cond}, nil
	}

	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.RelationalOperator {
		return nil, p.errorf("expected a relational operator")
	}
	op := p.advance().Lexeme
	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Comparison{Line: line, Op: op, Left: left, Right: right}, nil
}

// expression := optional_sign term ( addop term )*
func (p *Parser) parseExpression() (ast.Node, error) {
	line := p.cur().Line
	negate := false
	if p.cur().Kind == token.ArithmeticOperator && (p.cur().Lexeme == "+" || p.cur().Lexeme == "-") {
		negate = p.cur().Lexeme == "-"
		p.advance()
	}

	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if negate {
		left = &ast.UnaryMinus{Line: line, Value: left}
	}

	for p.cur().Kind == token.ArithmeticOperator && (p.cur().Lexeme == "+" || p.cur().Lexeme == "-") {
		opLine := p.cur().Line
		op := p.advance().Lexeme
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Line: opLine, Op: op, Left: left, Right: right}
	}

	return left, nil
}

// term := factor ( mulop factor )*
func (p *Parser) parseTerm() (ast.Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.cur().Kind == token.ArithmeticOperator && (p.cur().Lexeme == "*" || p.cur().Lexeme == "/") {
		line := p.cur().Line
		op := p.advance().Lexeme
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Line: line, Op: op, Left: left, Right: right}
	}

	return left, nil
}

// factor := NUMBER | '(' expression ')' | ID idtail
func (p *Parser) parseFactor() (ast.Node, error) {
	switch {
	case p.cur().Kind == token.Number:
		n := p.advance()
		return &ast.Number{Line: n.Line, Value: n.Lexeme}, nil

	case p.cur().Kind == token.Grouping && p.cur().Lexeme == "(":
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectLexeme(token.Grouping, ")"); err != nil {
			return nil, err
		}
		return &ast.ParenExpression{Inner: inner}, nil

	case p.cur().Kind == token.Identifier:
		id := p.advance()
		actual, isCall, err := p.parseIdTail()
		if err != nil {
			return nil, err
		}
		return &ast.Identifier{Line: id.Line, Name: id.Lexeme, Actual: actual, IsCall: isCall}, nil

	default:
		return nil, p.errorf("expected a number, '(' or identifier")
	}
}
