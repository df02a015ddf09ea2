// Package compiler drives the whole pipeline end to end: a UTF-8
// source string goes in, and the three textual artifacts of spec.md §6
// come out. Everything outside this package is a "thin external
// collaborator" per spec.md §1 — argument parsing, file I/O, debug
// printing live in cmd/grc, not here.
package compiler

import (
	"log"

	"glang.dev/grc/pkg/diag"
	"glang.dev/grc/pkg/ir"
	"glang.dev/grc/pkg/lexer"
	"glang.dev/grc/pkg/parser"
	"glang.dev/grc/pkg/riscv"
	"glang.dev/grc/pkg/symtab"
)

// Result bundles the three artifacts the pipeline produces from one
// source file (spec.md §6): the intermediate-code listing, the
// symbol-table dump, and the RISC-V assembly text.
type Result struct {
	Intermediate string
	SymbolDump   string
	Assembly     string
	Quads        []ir.Quad
	Warnings     []*diag.SymbolWarning
}

// Options configures a single Compile call.
type Options struct {
	// Trace mirrors lexer.WithTracing: every token is printed to
	// stderr as it is produced.
	Trace bool
}

// Compile runs C1 through C5 (spec.md §2) over source and returns its
// artifacts. It stops at the first fatal error — LexicalError or
// SyntaxError — discarding whatever partial output earlier stages
// produced (spec.md §7, "Propagation policy"). SymbolWarnings are
// non-fatal and are both logged and returned on Result.
func Compile(source string, opts Options) (*Result, error) {
	var lexOpts []lexer.Option
	if opts.Trace {
		lexOpts = append(lexOpts, lexer.WithTracing(true))
	}

	tokens, err := lexer.New(source, lexOpts...).Tokenize()
	if err != nil {
		return nil, err
	}

	prog, err := parser.New(tokens).Parse()
	if err != nil {
		return nil, err
	}

	table := symtab.Build(prog)
	for _, w := range table.Warnings {
		log.Print(w.Error())
	}

	quads := ir.Emit(prog)

	return &Result{
		Intermediate: ir.WriteListing(quads),
		SymbolDump:   table.Dump(),
		Assembly:     riscv.Render(quads, table),
		Quads:        quads,
		Warnings:     table.Warnings,
	}, nil
}
