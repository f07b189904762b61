package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shiramin/slrgen/driver"
	"github.com/shiramin/slrgen/spec"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "parse <compiled grammar file> <token file>",
		Short: "Parse a token list with a compiled grammar and print the parse tree",
		Args:  cobra.ExactArgs(2),
		RunE:  runParse,
	}
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	d, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	cgram := &spec.CompiledGrammar{}
	err = json.Unmarshal(d, cgram)
	if err != nil {
		return fmt.Errorf("%v: %w", args[0], err)
	}

	d, err = os.ReadFile(args[1])
	if err != nil {
		return err
	}
	var defs []*spec.TokenDef
	err = json.Unmarshal(d, &defs)
	if err != nil {
		return fmt.Errorf("%v: %w", args[1], err)
	}
	toks := make([]spec.Token, len(defs))
	for i, t := range defs {
		// A token list carries no source positions; the column stands in for
		// the token's index.
		toks[i] = driver.NewToken(t.Kind, t.Text, 1, i+1)
	}

	p, err := driver.NewParser(cgram, driver.NewSliceTokenStream(toks))
	if err != nil {
		return err
	}
	root, err := p.Parse()
	if err != nil {
		return err
	}
	driver.PrintTree(os.Stdout, root.(*driver.Node))
	return nil
}
