package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shiramin/slrgen/grammar"
	"github.com/shiramin/slrgen/spec"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
	report *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "compile <grammar file>",
		Short: "Compile a grammar definition into an SLR(1) parsing table",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.report = cmd.Flags().StringP("report", "r", "", "write a description of the generated automaton to this file")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	def, err := readGrammarDef(args[0])
	if err != nil {
		return err
	}
	gram, err := grammar.FromDef(def)
	if err != nil {
		return err
	}

	var opts []grammar.CompileOption
	if *compileFlags.report != "" {
		opts = append(opts, grammar.EnableReporting())
	}
	cgram, report, err := grammar.Compile(gram, opts...)
	if err != nil {
		return err
	}

	for _, w := range report.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w.Message)
	}

	err = writeJSON(*compileFlags.output, cgram)
	if err != nil {
		return err
	}
	if *compileFlags.report != "" {
		err = writeJSON(*compileFlags.report, report)
		if err != nil {
			return err
		}
	}
	return nil
}

func readGrammarDef(path string) (*spec.GrammarDef, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def := &spec.GrammarDef{}
	err = json.Unmarshal(d, def)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return def, nil
}

func writeJSON(path string, v any) error {
	d, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	d = append(d, '\n')
	if path == "" {
		_, err = os.Stdout.Write(d)
		return err
	}
	return os.WriteFile(path, d, 0644)
}
