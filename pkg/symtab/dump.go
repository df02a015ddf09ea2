package symtab

import (
	"fmt"
	"strings"
)

func (k EntityKind) String() string {
	switch k {
	case ProgramEntity:
		return "program"
	case VariableEntity:
		return "variable"
	case ParameterEntity:
		return "parameter"
	case FunctionEntity:
		return "function"
	case ProcedureEntity:
		return "procedure"
	default:
		return "unknown"
	}
}

// Dump renders a human-readable listing of every scope and its
// entities, one scope per block (spec.md §6: "exact format is not
// stable and is not required by downstream consumers").
func (t *Table) Dump() string {
	var b strings.Builder
	for _, scope := range t.Scopes {
		fmt.Fprintf(&b, "scope %q (level %d)\n", scope.Name, scope.Level)
		for _, name := range scope.order {
			e := scope.Entities[name]
			fmt.Fprintf(&b, "  %-16s kind=%-10s level=%d offset=%d\n", e.Name, e.Kind, e.ScopeLevel, e.Offset)
		}
	}
	return b.String()
}
