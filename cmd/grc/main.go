package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teris-io/cli"

	"glang.dev/grc/pkg/compiler"
	"glang.dev/grc/pkg/diag"
	"glang.dev/grc/pkg/quadfile"
)

var Description = strings.ReplaceAll(`
grc compiles a single source file written in the Greek-keyword teaching
language into an intermediate-code listing and RISC-V assembly. It
produces <basename>.int, <basename>.sym and <basename>.asm next to the
input file.
`, "\n", " ")

var Grc = cli.New(Description).
	WithArg(cli.NewArg("input", "The source file to be compiled")).
	WithOption(cli.NewOption("debug", "Traces every token the lexer emits to stderr").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("verify", "Re-parses the emitted .int listing and checks it against the in-memory quads").
		WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Printf("ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("ERROR: Unable to open input file: %s\n", err)
		return -1
	}

	_, debug := options["debug"]
	result, err := compiler.Compile(string(content), compiler.Options{Trace: debug})
	if err != nil {
		fmt.Fprintln(os.Stderr, diag.Format(err, string(content)))
		return -1
	}

	if _, enabled := options["verify"]; enabled {
		if err := verify(result); err != nil {
			fmt.Printf("ERROR: -verify: %s\n", err)
			return -1
		}
	}

	base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
	artifacts := map[string]string{
		base + ".int": result.Intermediate,
		base + ".sym": result.SymbolDump,
		base + ".asm": result.Assembly,
	}

	for path, text := range artifacts {
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			fmt.Printf("ERROR: Unable to write output file %q: %s\n", path, err)
			return -1
		}
	}

	return 0
}

// verify re-parses the just-emitted .int listing through pkg/quadfile
// and checks it reproduces the in-memory quad list exactly, catching
// any divergence between ir.WriteListing and quadfile.Parser.
func verify(result *compiler.Result) error {
	reparsed, err := quadfile.NewParser(bytes.NewReader([]byte(result.Intermediate))).Parse()
	if err != nil {
		return fmt.Errorf("failed to re-parse emitted IR: %w", err)
	}
	if len(reparsed) != len(result.Quads) {
		return fmt.Errorf("re-parsed %d quads, expected %d", len(reparsed), len(result.Quads))
	}
	for i, q := range result.Quads {
		if reparsed[i] != q {
			return fmt.Errorf("quad %d mismatch: re-parsed %+v, expected %+v", i, reparsed[i], q)
		}
	}
	return nil
}

func main() { os.Exit(Grc.Run(os.Args, os.Stdout)) }
