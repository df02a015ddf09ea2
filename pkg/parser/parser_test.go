package parser

import (
	"testing"

	"glang.dev/grc/pkg/ast"
	"glang.dev/grc/pkg/lexer"
)

func parse(t *testing.T, source string) *ast.Program {
	t.Helper()
	toks, err := lexer.New(source).Tokenize()
	if err != nil {
		t.Fatalf("lexer error: %s", err)
	}
	prog, err := New(toks).Parse()
	if err != nil {
		t.Fatalf("parser error: %s", err)
	}
	return prog
}

func TestParserAcceptsMinimalProgram(t *testing.T) {
	prog := parse(t, `πρόγραμμα t δήλωση a αρχή_προγράμματος a := 1 τέλος_προγράμματος`)
	if prog.Name != "t" {
		t.Fatalf("expected program name 't', got %q", prog.Name)
	}
	if len(prog.Block.Declarations) != 1 || prog.Block.Declarations[0] != "a" {
		t.Fatalf("expected single declaration 'a', got %v", prog.Block.Declarations)
	}
	if len(prog.Block.Body.Statements) != 1 {
		t.Fatalf("expected exactly one statement, got %d", len(prog.Block.Body.Statements))
	}
}

func TestParserLeftAssociativity(t *testing.T) {
	prog := parse(t, `πρόγραμμα t δήλωση a αρχή_προγράμματος a := 1 + 2 + 3 τέλος_προγράμματος`)
	assign := prog.Block.Body.Statements[0].(*ast.Assignment)
	top, ok := assign.Value.(*ast.BinaryOperation)
	if !ok {
		t.Fatalf("expected top-level binary operation, got %T", assign.Value)
	}
	// (1+2)+3: the left child must itself be a binary operation.
	if _, ok := top.Left.(*ast.BinaryOperation); !ok {
		t.Fatalf("expected left-leaning tree, left child is %T", top.Left)
	}
	if _, ok := top.Right.(*ast.Number); !ok {
		t.Fatalf("expected right child to be the trailing operand, got %T", top.Right)
	}
}

func TestParserIfThenElse(t *testing.T) {
	prog := parse(t, `πρόγραμμα t δήλωση a αρχή_προγράμματος
		εάν a < 10 τότε a := 1 αλλιώς a := 2 εάν_τέλος
	τέλος_προγράμματος`)
	ifStmt, ok := prog.Block.Body.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected if-statement, got %T", prog.Block.Body.Statements[0])
	}
	if ifStmt.Else == nil {
		t.Fatal("expected an else branch")
	}
}

func TestParserForWithoutStepDefaultsAtIRTime(t *testing.T) {
	prog := parse(t, `πρόγραμμα t δήλωση i αρχή_προγράμματος
		για i := 1 έως 8 επανάλαβε i := i + 1 για_τέλος
	τέλος_προγράμματος`)
	forStmt, ok := prog.Block.Body.Statements[0].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected for-statement, got %T", prog.Block.Body.Statements[0])
	}
	if forStmt.Step != nil {
		t.Fatalf("expected nil Step when 'με_βήμα' omitted, got %v", forStmt.Step)
	}
}

func TestParserCallWithValueAndReferenceArgs(t *testing.T) {
	prog := parse(t, `πρόγραμμα t δήλωση γ,α,β αρχή_προγράμματος
		γ := αύξηση(α, %β)
	τέλος_προγράμματος`)
	assign := prog.Block.Body.Statements[0].(*ast.Assignment)
	id, ok := assign.Value.(*ast.Identifier)
	if !ok || !id.IsCall {
		t.Fatalf("expected a call expression, got %T", assign.Value)
	}
	if len(id.Actual) != 2 {
		t.Fatalf("expected 2 actual parameters, got %d", len(id.Actual))
	}
	if id.Actual[0].ByReference {
		t.Error("first argument should be by value")
	}
	if !id.Actual[1].ByReference || id.Actual[1].Name != "β" {
		t.Errorf("second argument should be by reference to 'β', got %+v", id.Actual[1])
	}
}

func TestParserSequenceTerminatorHeuristic(t *testing.T) {
	// trailing ';' right before a closing keyword must not require another statement.
	prog := parse(t, `πρόγραμμα t δήλωση a αρχή_προγράμματος a := 1; τέλος_προγράμματος`)
	if len(prog.Block.Body.Statements) != 1 {
		t.Fatalf("expected exactly one statement, got %d", len(prog.Block.Body.Statements))
	}
}

func TestParserRejectsMalformedProgram(t *testing.T) {
	toks, err := lexer.New(`πρόγραμμα t αρχή_προγράμματος a := τέλος_προγράμματος`).Tokenize()
	if err != nil {
		t.Fatalf("lexer error: %s", err)
	}
	if _, err := New(toks).Parse(); err == nil {
		t.Fatal("expected a syntax error for a missing expression")
	}
}

func TestParserNestedFunctionDeclaration(t *testing.T) {
	prog := parse(t, `πρόγραμμα t
		δήλωση a
		συνάρτηση αύξηση(x)
			διαπροσωπεία είσοδος x έξοδος αύξηση
			αρχή_συνάρτησης αύξηση := x + 1 τέλος_συνάρτησης
	αρχή_προγράμματος a := αύξηση(1) τέλος_προγράμματος`)

	if len(prog.Block.Subprograms) != 1 {
		t.Fatalf("expected exactly one subprogram, got %d", len(prog.Block.Subprograms))
	}
	fn, ok := prog.Block.Subprograms[0].(*ast.Function)
	if !ok {
		t.Fatalf("expected *ast.Function, got %T", prog.Block.Subprograms[0])
	}
	if fn.Name != "αύξηση" || len(fn.Params) != 1 || fn.Params[0] != "x" {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
}
