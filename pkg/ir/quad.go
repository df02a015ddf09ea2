package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholder is the "don't care" operand used for unset arg1/arg2/result
// fields; backpatching later replaces it in the result field of jump and
// branch quads.
const Placeholder = "_"

// Quad is the five-tuple (label, op, arg1, arg2, result) of spec.md §3.
type Quad struct {
	Label  int
	Op     string
	Arg1   string
	Arg2   string
	Result string
}

// WriteListing renders quads in the "LLL: (op, arg1, arg2, result)"
// format of spec.md §6, zero-padding the label to the width of the
// largest label present — matching
// original_source/src/intermediate.py's quad_to_string exactly, rather
// than assuming a fixed width.
func WriteListing(quads []Quad) string {
	if len(quads) == 0 {
		return ""
	}

	width := len(strconv.Itoa(quads[len(quads)-1].Label))

	var b strings.Builder
	for _, q := range quads {
		fmt.Fprintf(&b, "%0*d: (%s, %s, %s, %s)\n", width, q.Label, q.Op, q.Arg1, q.Arg2, q.Result)
	}
	return b.String()
}
