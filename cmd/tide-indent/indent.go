package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/bethropolis/tide-indent/internal/indent"
)

type indentResult struct {
	File     string `json:"file"`
	Grammar  string `json:"grammar"`
	Line     int    `json:"line"`
	Typed    string `json:"typed"`
	Code     int    `json:"code"`
	Decision string `json:"decision"`
}

func newIndentCmd(a *app) *cobra.Command {
	var (
		line        int
		typed       string
		width       int
		grammarName string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "indent FILE --line N [--char C]",
		Short: "Print the indent decision for one line",
		Long: `Treats FILE as the buffer right after C was typed on line N (1-based) and
prints the engine's answer: a column count, -1 to keep the previous line's
indent, or -2 to leave the line alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if line < 1 {
				return fmt.Errorf("--line must be at least 1")
			}
			ch, err := unescapeChar(typed)
			if err != nil {
				return err
			}
			g, err := a.grammarFor(grammarName, path)
			if err != nil {
				return err
			}
			buf, err := loadFile(path)
			if err != nil {
				return err
			}
			if width <= 0 {
				width = a.cfg.Indent.Unit()
			}
			sess, err := a.newSession(cmd.Context(), g, buf)
			if err != nil {
				return err
			}
			defer sess.Close()

			d := sess.Engine().Indent(sess.Document(), line-1, width, ch)
			if !asJSON {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), d.Code())
				return err
			}
			return writeJSON(cmd, indentResult{
				File: path, Grammar: g.Name, Line: line, Typed: ch,
				Code: d.Code(), Decision: decisionName(d),
			})
		},
	}
	cmd.Flags().IntVarP(&line, "line", "l", 0, "1-based line number")
	cmd.Flags().StringVarP(&typed, "char", "c", `\n`, `typed character; escapes such as \n are allowed`)
	cmd.Flags().IntVarP(&width, "width", "w", 0, "indent unit width (default from config)")
	cmd.Flags().StringVarP(&grammarName, "grammar", "g", "", "grammar name (default: by file extension)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON object")
	_ = cmd.MarkFlagRequired("line")
	return cmd
}

func decisionName(d indent.Decision) string {
	if d.Kind == indent.KindColumns {
		return "columns"
	}
	return d.String()
}

// unescapeChar turns `\n` style escapes into the character they name.
func unescapeChar(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	out, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return "", fmt.Errorf("invalid --char %q: %w", s, err)
	}
	return out, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
