package quadfile_test

import (
	"strings"
	"testing"

	"glang.dev/grc/pkg/ir"
	"glang.dev/grc/pkg/lexer"
	"glang.dev/grc/pkg/parser"
	"glang.dev/grc/pkg/quadfile"
)

func TestParserRoundTripsWriteListing(t *testing.T) {
	source := `πρόγραμμα t δήλωση a αρχή_προγράμματος a := 1; a := a + 1 τέλος_προγράμματος`

	toks, err := lexer.New(source).Tokenize()
	if err != nil {
		t.Fatalf("lexer error: %s", err)
	}
	prog, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("parser error: %s", err)
	}
	quads := ir.Emit(prog)
	listing := ir.WriteListing(quads)

	reparsed, err := quadfile.NewParser(strings.NewReader(listing)).Parse()
	if err != nil {
		t.Fatalf("quadfile parse error: %s", err)
	}

	if len(reparsed) != len(quads) {
		t.Fatalf("expected %d quads, got %d", len(quads), len(reparsed))
	}
	for i, q := range quads {
		if reparsed[i] != q {
			t.Errorf("quad %d mismatch: got %+v, want %+v", i, reparsed[i], q)
		}
	}
}
