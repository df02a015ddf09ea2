// Package quadfile reads the '.int' quadruple listing format of
// spec.md §6 ("LLL: (op, arg1, arg2, result)") back into pkg/ir.Quad
// values. It exists to round-trip what pkg/ir.WriteListing produces: a
// parser-combinator grammar (goparsec) builds a generic AST, then a
// small hand-written walk turns each "quad" subtree into the typed
// value this package returns.
package quadfile

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	pc "github.com/prataprc/goparsec"

	"glang.dev/grc/pkg/ir"
)

var qast = pc.NewAST("quadfile", 0)

var (
	pFile = qast.Kleene("file", nil, pLine)
	pLine = qast.And("quad", nil, pLabel, pColon, pLParen, pField, pComma, pField, pComma, pField, pComma, pField, pRParen)

	pLabel  = pc.Token(`[0-9]+`, "LABEL")
	pColon  = pc.Atom(":", "COLON")
	pLParen = pc.Atom("(", "LPAREN")
	pRParen = pc.Atom(")", "RPAREN")
	pComma  = pc.Atom(",", "COMMA")
	// A field is anything between delimiters: an op name, an identifier,
	// a number, a temporary (T_<n>), a label reference, or the '_' placeholder.
	pField = pc.Token(`[^,()]+`, "FIELD")
)

// Parser reads a '.int' listing from r and reconstructs its quadruples.
type Parser struct{ reader io.Reader }

// NewParser returns a Parser over r.
func NewParser(r io.Reader) Parser { return Parser{reader: r} }

// Parse reads the full listing and returns it as an ordered []ir.Quad.
func (p Parser) Parse() ([]ir.Quad, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, fmt.Errorf("quadfile: cannot read from reader: %w", err)
	}

	root, _ := qast.Parsewith(pFile, pc.NewScanner(content))
	if root == nil {
		return nil, fmt.Errorf("quadfile: failed to parse listing")
	}

	return p.fromAST(root)
}

func (p Parser) fromAST(root pc.Queryable) ([]ir.Quad, error) {
	if root.GetName() != "file" {
		return nil, fmt.Errorf("quadfile: expected root node 'file', got %s", root.GetName())
	}

	var quads []ir.Quad
	for _, line := range root.GetChildren() {
		q, err := p.handleQuad(line)
		if err != nil {
			return nil, err
		}
		quads = append(quads, q)
	}
	return quads, nil
}

// handleQuad turns one "quad" subtree (LABEL COLON LPAREN FIELD COMMA
// FIELD COMMA FIELD COMMA FIELD RPAREN) into an ir.Quad.
func (Parser) handleQuad(node pc.Queryable) (ir.Quad, error) {
	if node.GetName() != "quad" {
		return ir.Quad{}, fmt.Errorf("quadfile: expected node 'quad', got %s", node.GetName())
	}
	children := node.GetChildren()
	if len(children) != 11 {
		return ir.Quad{}, fmt.Errorf("quadfile: expected 11 leaves in a quad line, got %d", len(children))
	}

	label, err := strconv.Atoi(strings.TrimSpace(children[0].GetValue()))
	if err != nil {
		return ir.Quad{}, fmt.Errorf("quadfile: invalid label %q: %w", children[0].GetValue(), err)
	}

	return ir.Quad{
		Label:  label,
		Op:     strings.TrimSpace(children[3].GetValue()),
		Arg1:   strings.TrimSpace(children[5].GetValue()),
		Arg2:   strings.TrimSpace(children[7].GetValue()),
		Result: strings.TrimSpace(children[9].GetValue()),
	}, nil
}
