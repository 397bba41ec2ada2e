package main

import (
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/bethropolis/tide-indent/internal/classify"
	"github.com/bethropolis/tide-indent/internal/grammar"
)

func newGrammarsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "grammars",
		Short: "List the registered grammars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithHeaderAutoFormat(tw.Off))
			table.Header("Name", "Extensions", "Blocks", "Classifier", "Triggers")
			all := a.reg.All()
			data := make([][]any, len(all))
			for i, g := range all {
				data[i] = []any{g.Name, strings.Join(g.Extensions, " "), blockStyle(g), classifierFor(g), triggerList(g)}
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		},
	}
}

func blockStyle(g *grammar.Descriptor) string {
	switch {
	case g.Offside:
		return "offside"
	case g.HasBlocks():
		return "keywords"
	}
	return "brackets"
}

func classifierFor(g *grammar.Descriptor) string {
	if classify.HasBinding(g.TreeSitter) {
		return "tree-sitter (" + g.TreeSitter + ")"
	}
	return "lexical"
}

func triggerList(g *grammar.Descriptor) string {
	var parts []string
	for _, t := range g.Triggers() {
		if t == "\n" {
			t = `\n`
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, " ")
}
