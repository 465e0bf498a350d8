// Copyright (C) 2025 M. Lowell. All Rights Reserved.

// Program jparse validates JSON documents. It parses a file (or stdin) and
// reports either a summary of the top-level value or the first grammar
// violation with its exact position.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mlowell/jparse/ast"
)

// CLI defines the command-line interface.
var CLI struct {
	Input          string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Comments       bool   `help:"Allow // and /* */ comments in the input."`
	TrailingCommas bool   `help:"Allow trailing commas in objects and arrays."`
	MaxDepth       int    `help:"Maximum container nesting depth." default:"1000"`
	Quiet          bool   `help:"Suppress output; report validity through the exit status only." short:"q"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("jparse"),
		kong.Description("Validate a JSON document and report the first error with its position."),
		kong.UsageOnError(),
	)

	if err := run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "jparse: %v\n", err)
		os.Exit(1)
	}
}

func run(stdin io.Reader, stdout io.Writer) error {
	var text []byte
	var err error
	if CLI.Input != "" {
		text, err = os.ReadFile(CLI.Input)
	} else {
		text, err = io.ReadAll(stdin)
	}
	if err != nil {
		return err
	}

	p := ast.NewParser(string(text))
	p.AllowComments(CLI.Comments)
	p.AllowTrailingCommas(CLI.TrailingCommas)
	p.SetMaxDepth(CLI.MaxDepth)

	v, err := p.Parse()
	if err != nil {
		return err
	}
	if !CLI.Quiet {
		fmt.Fprintf(stdout, "OK: %s\n", describe(v))
	}
	return nil
}

// describe summarizes the top-level value for the success report.
func describe(v ast.Value) string {
	switch t := v.(type) {
	case *ast.Object:
		return fmt.Sprintf("object with %d members", len(t.Members))
	case *ast.Array:
		return fmt.Sprintf("array with %d values", len(t.Values))
	case ast.String:
		return "string"
	case ast.Number:
		return "number"
	case ast.Bool:
		return "boolean"
	default:
		return "null"
	}
}
