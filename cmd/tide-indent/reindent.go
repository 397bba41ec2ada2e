package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/bethropolis/tide-indent/internal/buffer"
	"github.com/bethropolis/tide-indent/internal/session"
)

var errNeedsReindent = errors.New("some files need reindenting")

type fileResult struct {
	Path    string               `json:"path"`
	Changes []session.LineChange `json:"changes"`
}

func newReindentCmd(a *app) *cobra.Command {
	var (
		check       bool
		write       bool
		useClip     bool
		asJSON      bool
		grammarName string
		jobs        int
	)
	cmd := &cobra.Command{
		Use:   "reindent [FILE...]",
		Short: "Reindent whole files",
		Long: `Recomputes the indent of every non-blank line, top to bottom. By default the
changed lines are reported; --write saves the files and --check fails when
any file would change. --clipboard reindents the system clipboard instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if useClip {
				return a.reindentClipboard(cmd.Context(), grammarName)
			}
			if len(args) == 0 {
				return fmt.Errorf("no files given")
			}
			if check && write {
				return fmt.Errorf("--check and --write are mutually exclusive")
			}

			results := make([]fileResult, len(args))
			p := pool.New().WithContext(cmd.Context()).WithMaxGoroutines(max(jobs, 1))
			for i, path := range args {
				p.Go(func(ctx context.Context) error {
					changes, err := a.reindentFile(ctx, path, grammarName, write)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					results[i] = fileResult{Path: path, Changes: changes}
					return nil
				})
			}
			if err := p.Wait(); err != nil {
				return err
			}

			if asJSON {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				printResults(cmd.OutOrStdout(), results, write)
			}
			if check {
				for _, r := range results {
					if len(r.Changes) > 0 {
						return errNeedsReindent
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "exit with an error when a file would change")
	cmd.Flags().BoolVar(&write, "write", false, "write the reindented files back")
	cmd.Flags().BoolVar(&useClip, "clipboard", false, "reindent the system clipboard (requires --grammar)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the changes as JSON")
	cmd.Flags().StringVarP(&grammarName, "grammar", "g", "", "grammar name (default: by file extension)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "files processed in parallel")
	return cmd
}

func (a *app) reindentFile(ctx context.Context, path, grammarName string, write bool) ([]session.LineChange, error) {
	g, err := a.grammarFor(grammarName, path)
	if err != nil {
		return nil, err
	}
	buf, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	sess, err := a.newSession(ctx, g, buf)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	changes, err := sess.ReindentAll(ctx)
	if err != nil {
		return nil, err
	}
	if write && len(changes) > 0 {
		if err := buf.Save(""); err != nil {
			return nil, err
		}
	}
	return changes, nil
}

func (a *app) reindentClipboard(ctx context.Context, grammarName string) error {
	if grammarName == "" {
		return fmt.Errorf("--clipboard needs --grammar")
	}
	g, err := a.grammarFor(grammarName, "")
	if err != nil {
		return err
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return fmt.Errorf("reading clipboard: %w", err)
	}
	buf := buffer.NewFromBytes([]byte(text))
	sess, err := a.newSession(ctx, g, buf)
	if err != nil {
		return err
	}
	defer sess.Close()
	if _, err := sess.ReindentAll(ctx); err != nil {
		return err
	}
	out := string(buf.Bytes())
	if len(text) > 0 && text[len(text)-1] == '\n' {
		out += "\n"
	}
	return clipboard.WriteAll(out)
}

func printResults(w io.Writer, results []fileResult, wrote bool) {
	file := color.New(color.Bold)
	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	for _, r := range results {
		if len(r.Changes) == 0 {
			continue
		}
		verb := "would change"
		if wrote {
			verb = "changed"
		}
		file.Fprintf(w, "%s: %s %d line(s)\n", r.Path, verb, len(r.Changes))
		for _, c := range r.Changes {
			removed.Fprintf(w, "%5d - %q\n", c.Line+1, c.Before)
			added.Fprintf(w, "%5d + %q\n", c.Line+1, c.After)
		}
	}
}
