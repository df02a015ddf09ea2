package ir

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"glang.dev/grc/pkg/lexer"
	"glang.dev/grc/pkg/parser"
)

func compile(t *testing.T, source string) []Quad {
	t.Helper()
	toks, err := lexer.New(source).Tokenize()
	if err != nil {
		t.Fatalf("lexer error: %s", err)
	}
	prog, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("parser error: %s", err)
	}
	return Emit(prog)
}

func findOp(t *testing.T, quads []Quad, op string) Quad {
	t.Helper()
	for _, q := range quads {
		if q.Op == op {
			return q
		}
	}
	t.Fatalf("expected a %q quad, found none in %v", op, quads)
	return Quad{}
}

// scenario 1 of spec.md §8: a := 1; a := a + 1.
func TestEmitHelloIncrement(t *testing.T) {
	quads := compile(t, `πρόγραμμα t αρχή_προγράμματος a := 1; a := a + 1 τέλος_προγράμματος`)

	want := []struct{ op, arg1, arg2, result string }{
		{"begin_block", "t", Placeholder, Placeholder},
		{":=", "1", Placeholder, "a"},
		{"+", "a", "1", "T_0"},
		{":=", "T_0", Placeholder, "a"},
		{"halt", Placeholder, Placeholder, Placeholder},
		{"end_block", "t", Placeholder, Placeholder},
	}
	if len(quads) != len(want) {
		t.Fatalf("expected %d quads, got %d: %v", len(want), len(quads), quads)
	}
	for i, w := range want {
		q := quads[i]
		if q.Op != w.op || q.Arg1 != w.arg1 || q.Arg2 != w.arg2 || q.Result != w.result {
			t.Errorf("quad %d: got %+v, want op=%s arg1=%s arg2=%s result=%s", i, q, w.op, w.arg1, w.arg2, w.result)
		}
	}
}

// scenario 2: if a < 10 then a := 1 else a := 2.
func TestEmitIfThenElse(t *testing.T) {
	quads := compile(t, `πρόγραμμα t αρχή_προγράμματος
		εάν [ a < 10 ] τότε
			a := 1
		αλλιώς
			a := 2
		εάν_τέλος
		τέλος_προγράμματος`)

	lt := findOp(t, quads, "<")
	thenAssign := -1
	elseAssign := -1
	for i, q := range quads {
		if q.Op == ":=" && q.Arg1 == "1" {
			thenAssign = i
		}
		if q.Op == ":=" && q.Arg1 == "2" {
			elseAssign = i
		}
	}
	if thenAssign < 0 || elseAssign < 0 {
		t.Fatalf("expected both branch assignments, got %v", quads)
	}
	if lt.Result != itoaLabel(thenAssign) {
		t.Errorf("expected the '<' quad to backpatch to the then-branch (%d), got result %q", thenAssign, lt.Result)
	}

	skip := quads[thenAssign+1]
	if skip.Op != "jump" {
		t.Fatalf("expected a jump quad after the then-branch, got %+v", skip)
	}
	if skip.Result != itoaLabel(len(quads)-2) {
		t.Errorf("expected the skip jump to target past the if (end_block precedes label %d), got %q", len(quads)-2, skip.Result)
	}

	initialFalseJump := quads[lt.Label+1]
	if initialFalseJump.Op != "jump" {
		t.Fatalf("expected the false-list jump right after '<', got %+v", initialFalseJump)
	}
	if initialFalseJump.Result != itoaLabel(elseAssign) {
		t.Errorf("expected the false-exit jump to target the else-branch (%d), got %q", elseAssign, initialFalseJump.Result)
	}
}

// scenario 3: while a < 10 do a := a + 1.
func TestEmitWhile(t *testing.T) {
	quads := compile(t, `πρόγραμμα t αρχή_προγράμματος
		όσο [ a < 10 ] επανάλαβε
			a := a + 1
		όσο_τέλος
		τέλος_προγράμματος`)

	lt := findOp(t, quads, "<")
	backJump := quads[len(quads)-3] // last loop-body quad, right before halt
	if backJump.Op != "jump" || backJump.Result != itoaLabel(lt.Label) {
		t.Fatalf("expected the loop body to end with a jump back to the condition (%d), got %+v", lt.Label, backJump)
	}
}

// scenario 4: for i := 1 to 8 step 2 do ...
func TestEmitForLoop(t *testing.T) {
	quads := compile(t, `πρόγραμμα t αρχή_προγράμματος
		για i := 1 έως 8 με_βήμα 2 επανάλαβε
			x := i
		για_τέλος
		τέλος_προγράμματος`)

	cmp := findOp(t, quads, "<=")
	if cmp.Arg1 != "i" || cmp.Arg2 != "8" {
		t.Fatalf("expected '<=' comparing i to 8, got %+v", cmp)
	}
	jumpz := quads[cmp.Label+1]
	if jumpz.Op != "jumpz" || jumpz.Arg1 != cmp.Result {
		t.Fatalf("expected a jumpz on the comparison's temporary, got %+v", jumpz)
	}

	plus := findOp(t, quads, "+")
	if plus.Arg1 != "i" || plus.Arg2 != "2" {
		t.Errorf("expected the step increment to add 2 to i, got %+v", plus)
	}
}

// scenario 4b: for without step defaults the increment to 1.
func TestEmitForLoopDefaultStep(t *testing.T) {
	quads := compile(t, `πρόγραμμα t αρχή_προγράμματος
		για i := 1 έως 8 επανάλαβε
			x := i
		για_τέλος
		τέλος_προγράμματος`)

	plus := findOp(t, quads, "+")
	if plus.Arg2 != "1" {
		t.Errorf("expected the default step to be 1, got %+v", plus)
	}
}

// scenario 5: a function call with one by-value and one by-reference argument.
func TestEmitCallWithReferenceArgument(t *testing.T) {
	quads := compile(t, `πρόγραμμα t
		συνάρτηση αύξηση(α, β)
			διαπροσωπεία είσοδος α, β έξοδος αύξηση
			αρχή_συνάρτησης αύξηση := α + β τέλος_συνάρτησης
		αρχή_προγράμματος
			γ := αύξηση(α, %β)
		τέλος_προγράμματος`)

	var pars []Quad
	for _, q := range quads {
		if q.Op == "par" {
			pars = append(pars, q)
		}
	}
	if len(pars) != 3 {
		t.Fatalf("expected 3 par quads (value arg, ref arg, return slot), got %d: %v", len(pars), pars)
	}
	if pars[0].Arg1 != "α" || pars[0].Arg2 != "cv" {
		t.Errorf("expected the first par to pass α by value, got %+v", pars[0])
	}
	if pars[1].Arg1 != "β" || pars[1].Arg2 != "ref" {
		t.Errorf("expected the second par to pass β by reference, got %+v", pars[1])
	}
	if pars[2].Arg2 != "ret" {
		t.Errorf("expected the third par to be the return slot, got %+v", pars[2])
	}

	call := findOp(t, quads, "call")
	if call.Arg1 != "αύξηση" {
		t.Errorf("expected a call to αύξηση, got %+v", call)
	}

	assign := quads[call.Label+1]
	if assign.Op != ":=" || assign.Arg1 != pars[2].Arg1 || assign.Result != "γ" {
		t.Errorf("expected the call result to be assigned into γ, got %+v", assign)
	}
}

// A procedure or function body that assigns to its own name emits retv;
// one that never does emits a bare ret.
func TestEmitReturnConvention(t *testing.T) {
	withReturn := compile(t, `πρόγραμμα t
		συνάρτηση f(x)
			διαπροσωπεία είσοδος x έξοδος f
			αρχή_συνάρτησης f := x τέλος_συνάρτησης
		αρχή_προγράμματος g := 1 τέλος_προγράμματος`)
	found := false
	for _, q := range withReturn {
		if q.Op == "retv" {
			found = true
		}
	}
	if !found {
		t.Error("expected a retv quad for a function that assigns to its own name")
	}

	withoutReturn := compile(t, `πρόγραμμα t
		διαδικασία p(x)
			διαπροσωπεία είσοδος x
			αρχή_διαδικασίας y := x τέλος_διαδικασίας
		αρχή_προγράμματος g := 1 τέλος_προγράμματος`)
	sawRet := false
	for _, q := range withoutReturn {
		if q.Op == "ret" {
			sawRet = true
		}
		if q.Op == "retv" {
			t.Error("did not expect a retv quad for a procedure that never assigns to its own name")
		}
	}
	if !sawRet {
		t.Error("expected a bare ret quad")
	}
}

func TestEmitLabelsAreContiguousFromZero(t *testing.T) {
	quads := compile(t, `πρόγραμμα t αρχή_προγράμματος a := 1 τέλος_προγράμματος`)
	for i, q := range quads {
		if q.Label != i {
			t.Fatalf("expected contiguous labels from 0, quad %d has label %d", i, q.Label)
		}
	}
}

// the full listing for the reference-argument call scenario, as a
// golden-file regression check on the quad stream as a whole rather
// than on individual fields (spec.md §8, scenario 5).
func TestWriteListingCallWithReferenceArgument(t *testing.T) {
	quads := compile(t, `πρόγραμμα t
		συνάρτηση αύξηση(α, β)
			διαπροσωπεία είσοδος α, β έξοδος αύξηση
			αρχή_συνάρτησης αύξηση := α + β τέλος_συνάρτησης
		αρχή_προγράμματος
			γ := αύξηση(α, %β)
		τέλος_προγράμματος`)

	snaps.MatchSnapshot(t, WriteListing(quads))
}

func TestWriteListingPadsToLargestLabel(t *testing.T) {
	quads := compile(t, `πρόγραμμα t αρχή_προγράμματος a := 1 τέλος_προγράμματος`)
	listing := WriteListing(quads)
	if listing == "" {
		t.Fatal("expected a non-empty listing")
	}
	wantWidth := len(itoaLabel(len(quads) - 1))
	firstLine := listing[:wantWidth]
	for _, c := range firstLine {
		if c < '0' || c > '9' {
			t.Fatalf("expected the listing to start with a %d-digit zero-padded label, got %q", wantWidth, listing)
		}
	}
}

func itoaLabel(n int) string {
	digits := []byte{}
	if n == 0 {
		return "0"
	}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
