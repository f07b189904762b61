package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shiramin/slrgen/spec"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show <report file>",
		Short: "Print a compilation report in a readable format",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	d, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	report := &spec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return fmt.Errorf("%v: %w", args[0], err)
	}
	return writeReport(os.Stdout, report)
}

// reportView resolves the symbol and production numbers a report carries into
// printable names.
type reportView struct {
	report   *spec.Report
	terms    map[int]*spec.Terminal
	nonTerms map[int]*spec.NonTerminal
	prods    map[int]*spec.Production
}

func newReportView(report *spec.Report) *reportView {
	v := &reportView{
		report:   report,
		terms:    map[int]*spec.Terminal{},
		nonTerms: map[int]*spec.NonTerminal{},
		prods:    map[int]*spec.Production{},
	}
	for _, t := range report.Terminals {
		v.terms[t.Number] = t
	}
	for _, n := range report.NonTerminals {
		v.nonTerms[n.Number] = n
	}
	for _, p := range report.Productions {
		v.prods[p.Number] = p
	}
	return v
}

// symbolName renders a RHS element: a positive number is a terminal, a negative
// number a non-terminal. Literal terminals are quoted, category terminals are
// bracketed.
func (v *reportView) symbolName(n int) string {
	if n > 0 {
		t, ok := v.terms[n]
		if !ok {
			return strconv.Itoa(n)
		}
		if t.Category {
			return fmt.Sprintf("<%v>", t.Name)
		}
		return fmt.Sprintf("'%v'", t.Name)
	}
	nt, ok := v.nonTerms[n * -1]
	if !ok {
		return strconv.Itoa(n)
	}
	return nt.Name
}

func (v *reportView) terminalName(n int) string {
	return v.symbolName(n)
}

func (v *reportView) nonTerminalName(n int) string {
	return v.symbolName(n * -1)
}

func (v *reportView) productionText(num int) string {
	return v.dottedProductionText(num, -1)
}

func (v *reportView) dottedProductionText(num int, dot int) string {
	p, ok := v.prods[num]
	if !ok {
		return fmt.Sprintf("#%v", num)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", v.nonTerminalName(p.LHS))
	for i, e := range p.RHS {
		if i == dot {
			fmt.Fprintf(&b, "・%v", v.symbolName(e))
			continue
		}
		fmt.Fprintf(&b, " %v", v.symbolName(e))
	}
	if dot == len(p.RHS) {
		fmt.Fprintf(&b, "・")
	}
	return b.String()
}

func writeReport(w io.Writer, report *spec.Report) error {
	v := newReportView(report)

	fmt.Fprintf(w, "# Symbols\n\n")
	symTab := tablewriter.NewWriter(w)
	symTab.SetHeader([]string{"Kind", "Number", "Name"})
	for _, t := range report.Terminals {
		kind := "terminal"
		if t.Category {
			kind = "terminal (category)"
		}
		symTab.Append([]string{kind, strconv.Itoa(t.Number), t.Name})
	}
	for _, n := range report.NonTerminals {
		symTab.Append([]string{"non-terminal", strconv.Itoa(n.Number), n.Name})
	}
	symTab.Render()

	fmt.Fprintf(w, "\n# Productions\n\n")
	prodTab := tablewriter.NewWriter(w)
	prodTab.SetHeader([]string{"Number", "Production"})
	for _, p := range report.Productions {
		prodTab.Append([]string{strconv.Itoa(p.Number), v.productionText(p.Number)})
	}
	prodTab.Render()

	if len(report.States) > 0 {
		fmt.Fprintf(w, "\n# States\n")
		for _, s := range report.States {
			fmt.Fprintf(w, "\nstate %v\n", s.Number)
			for _, item := range s.Kernel {
				fmt.Fprintf(w, "    %v\n", v.dottedProductionText(item.Production, item.Dot))
			}
			if len(s.Shift) > 0 || len(s.Reduce) > 0 || len(s.GoTo) > 0 {
				fmt.Fprintf(w, "\n")
			}
			for _, t := range s.Shift {
				fmt.Fprintf(w, "    shift on %v to state %v\n", v.terminalName(t.Symbol), t.State)
			}
			for _, r := range s.Reduce {
				las := make([]string, len(r.LookAhead))
				for i, la := range r.LookAhead {
					las[i] = v.terminalName(la)
				}
				fmt.Fprintf(w, "    reduce by %v on %v\n", v.productionText(r.Production), strings.Join(las, ", "))
			}
			for _, t := range s.GoTo {
				fmt.Fprintf(w, "    goto %v to state %v\n", v.nonTerminalName(t.Symbol), t.State)
			}
			for _, c := range s.SRConflict {
				fmt.Fprintf(w, "\n    shift/reduce conflict on %v: shift to state %v adopted over reducing by %v\n",
					v.terminalName(c.Symbol), c.AdoptedState, v.productionText(c.Production))
			}
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "\n# Warnings\n\n")
		for _, warn := range report.Warnings {
			fmt.Fprintf(w, "- %v\n", warn.Message)
		}
	}

	return nil
}
