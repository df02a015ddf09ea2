// Package diag implements the error taxonomy of the compiler (spec.md §7):
// LexicalError, SyntaxError, SymbolWarning and InternalError, each carrying
// enough context to print a one-line diagnostic plus a source excerpt with
// a caret, in the spirit of CWBudde-go-dws's internal/errors package.
package diag

import (
	"fmt"
	"strings"
)

// LexicalError is raised by the lexer on an unrecognized character.
type LexicalError struct {
	Line      int
	Character rune
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexer: line %d: unexpected character %q", e.Line, e.Character)
}

// SyntaxError is raised by the parser on the first grammar mismatch.
type SyntaxError struct {
	Line    int
	Message string
	Lexeme  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parser: line %d: %s (found %q)", e.Line, e.Message, e.Lexeme)
}

// SymbolWarning is logged, not raised, when a declaration shadows an
// existing entity in the same scope; insertion stays idempotent.
type SymbolWarning struct {
	Name       string
	ScopeName  string
	ScopeLevel int
}

func (w *SymbolWarning) Error() string {
	return fmt.Sprintf("symtab: %q already declared in scope %q (level %d), keeping first declaration",
		w.Name, w.ScopeName, w.ScopeLevel)
}

// InternalError wraps an invariant violation the core itself was supposed
// to prevent; it is never expected to surface from a well-formed pipeline.
type InternalError struct {
	Stage string
	Detail string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error in %s: %s", e.Stage, e.Detail)
}

// Format renders err as its one-line Error() text ("stage: line N:
// message") followed by the offending source line and a caret marker,
// mirroring CompilerError.Format in CWBudde-go-dws/internal/errors.
// Errors carry no column, so the caret always sits at the start of the
// line.
func Format(err error, source string) string {
	line, header := 0, err.Error()

	switch e := err.(type) {
	case *LexicalError:
		line = e.Line
	case *SyntaxError:
		line = e.Line
	}

	if line <= 0 {
		return header
	}

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return header
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", header)
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | ^\n")
	return b.String()
}
