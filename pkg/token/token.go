// Package token defines the lexical categories produced by the lexer and
// consumed by the parser.
package token

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind uint8

const (
	Keyword             Kind = iota // one of the closed set in Keywords
	Identifier                      // user-chosen name, ASCII or Greek letters
	Number                          // integer or decimal literal
	ArithmeticOperator              // + - * /
	RelationalOperator              // < <= > >= = <>
	Assignment                      // :=
	Separator                       // ; , :
	Grouping                        // ( ) [ ] "
	Comment                         // { ... }
	ReferenceMarker                 // %
	EndOfInput                      // EOF
)

func (k Kind) String() string {
	switch k {
	case Keyword:
		return "keyword"
	case Identifier:
		return "identifier"
	case Number:
		return "number"
	case ArithmeticOperator:
		return "arithmetic-operator"
	case RelationalOperator:
		return "relational-operator"
	case Assignment:
		return "assignment"
	case Separator:
		return "separator"
	case Grouping:
		return "grouping"
	case Comment:
		return "comment"
	case ReferenceMarker:
		return "reference-marker"
	case EndOfInput:
		return "end-of-input"
	default:
		return "unknown"
	}
}

// Token is the triple (kind, lexeme, line) produced by the lexer.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Lexeme, t.Line)
}

// Is reports whether the token has the given kind and its lexeme equals
// lexeme — handy for matching a specific keyword.
func (t Token) Is(kind Kind, lexeme string) bool {
	return t.Kind == kind && t.Lexeme == lexeme
}

// Keywords is the closed reserved-word set of the language (spec.md §4.1).
var Keywords = map[string]bool{
	"πρόγραμμα": true, "δήλωση": true, "εάν": true, "τότε": true,
	"αλλιώς": true, "εάν_τέλος": true, "επανάλαβε": true, "μέχρι": true,
	"όσο": true, "όσο_τέλος": true, "για": true, "έως": true,
	"με_βήμα": true, "για_τέλος": true, "διάβασε": true, "γράψε": true,
	"συνάρτηση": true, "διαδικασία": true, "είσοδος": true, "έξοδος": true,
	"διαπροσωπεία": true, "αρχή_συνάρτησης": true, "τέλος_συνάρτησης": true,
	"αρχή_διαδικασίας": true, "τέλος_διαδικασίας": true,
	"αρχή_προγράμματος": true, "τέλος_προγράμματος": true,
	"ή": true, "και": true, "εκτέλεσε": true, "όχι": true,
}
