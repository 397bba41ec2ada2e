package main

import (
	"github.com/spf13/cobra"

	"github.com/bethropolis/tide-indent/internal/buffer"
	"github.com/bethropolis/tide-indent/internal/logger"
	"github.com/bethropolis/tide-indent/internal/tui"
)

func newPlayCmd(a *app) *cobra.Command {
	var grammarName string
	cmd := &cobra.Command{
		Use:   "play [FILE]",
		Short: "Open an interactive playground that reindents as you type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" && grammarName == "" {
				grammarName = "c"
			}
			g, err := a.grammarFor(grammarName, path)
			if err != nil {
				return err
			}
			buf := buffer.NewSliceBuffer()
			if path != "" {
				if buf, err = loadFile(path); err != nil {
					return err
				}
			}
			sess, err := a.newSession(cmd.Context(), g, buf)
			if err != nil {
				return err
			}
			defer sess.Close()

			ui, err := tui.New(nil)
			if err != nil {
				return err
			}
			defer ui.Close()
			logger.Infof("Playground started: grammar=%s file=%q", g.Name, path)
			return tui.NewPlayground(ui, sess, nil).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&grammarName, "grammar", "g", "", "grammar name (default: by file extension, or c)")
	return cmd
}
