package compiler_test

import (
	"strings"
	"testing"

	"glang.dev/grc/pkg/compiler"
)

func TestCompileProducesAllThreeArtifacts(t *testing.T) {
	source := `πρόγραμμα t δήλωση a αρχή_προγράμματος a := 1; a := a + 1 τέλος_προγράμματος`

	result, err := compiler.Compile(source, compiler.Options{})
	if err != nil {
		t.Fatalf("unexpected compile error: %s", err)
	}

	if !strings.Contains(result.Intermediate, ":=") {
		t.Errorf("expected the intermediate listing to contain an assignment quad, got:\n%s", result.Intermediate)
	}
	if !strings.Contains(result.SymbolDump, "a") {
		t.Errorf("expected the symbol dump to mention 'a', got:\n%s", result.SymbolDump)
	}
	if !strings.HasPrefix(result.Assembly, ".text") {
		t.Errorf("expected the assembly listing to open with '.text', got:\n%s", result.Assembly)
	}
	if len(result.Quads) == 0 {
		t.Error("expected a non-empty quad slice")
	}
}

func TestCompileStopsAtLexicalError(t *testing.T) {
	if _, err := compiler.Compile(`πρόγραμμα t αρχή_προγράμματος a := @ τέλος_προγράμματος`, compiler.Options{}); err == nil {
		t.Fatal("expected a lexical error for an unrecognized character")
	}
}

func TestCompileStopsAtSyntaxError(t *testing.T) {
	if _, err := compiler.Compile(`πρόγραμμα t αρχή_προγράμματος a := τέλος_προγράμματος`, compiler.Options{}); err == nil {
		t.Fatal("expected a syntax error for a missing expression")
	}
}

func TestCompileCollectsSymbolWarnings(t *testing.T) {
	source := `πρόγραμμα t δήλωση a,a αρχή_προγράμματος a := 1 τέλος_προγράμματος`
	result, err := compiler.Compile(source, compiler.Options{})
	if err != nil {
		t.Fatalf("unexpected compile error: %s", err)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a symbol warning for the duplicate declaration of 'a'")
	}
}
