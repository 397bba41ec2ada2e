package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bethropolis/tide-indent/internal/buffer"
	"github.com/bethropolis/tide-indent/internal/classify"
	"github.com/bethropolis/tide-indent/internal/config"
	"github.com/bethropolis/tide-indent/internal/grammar"
	"github.com/bethropolis/tide-indent/internal/indent"
	"github.com/bethropolis/tide-indent/internal/logger"
	"github.com/bethropolis/tide-indent/internal/session"
)

// app is the state every subcommand shares once the root has loaded the
// configuration.
type app struct {
	flags config.Flags
	cfg   *config.Config
	reg   *grammar.Registry
	log   *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "tide-indent",
		Short:         "Auto-indentation engine for editors",
		Long:          `tide-indent computes how far a line should be indented as you type, for brace, keyword and indentation-delimited grammars.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Close()
		},
	}
	a.flags.DefineFlags(root.PersistentFlags())

	root.AddCommand(
		newIndentCmd(a),
		newReindentCmd(a),
		newGrammarsCmd(a),
		newPlayCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.flags.ConfigPath(), &a.flags)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logger); err != nil {
		return err
	}
	reg, err := grammar.NewDefaultRegistry()
	if err != nil {
		return err
	}
	for _, dir := range cfg.Indent.GrammarDirs {
		descs, err := grammar.LoadDir(dir)
		if err != nil {
			return err
		}
		for _, d := range descs {
			reg.Register(d)
		}
	}
	a.cfg = cfg
	a.reg = reg
	a.log = logger.Tagged("indent")
	logger.DebugTagf("cli", "Loaded %d grammars", len(reg.All()))
	return nil
}

// grammarFor resolves an explicit grammar name, or the grammar registered
// for path's extension.
func (a *app) grammarFor(name, path string) (*grammar.Descriptor, error) {
	if name != "" {
		return a.reg.Get(name)
	}
	if path == "" {
		return nil, fmt.Errorf("no file extension to pick a grammar from; pass --grammar")
	}
	return a.reg.ForFile(path)
}

func (a *app) engine(g *grammar.Descriptor) (*indent.Engine, error) {
	return indent.New(g, indent.Options{
		TabWidth:  a.cfg.Indent.TabWidth,
		ScanLimit: a.cfg.Indent.ScanLimit,
		Logger:    a.log,
	})
}

// newSession opens buf with the configured indent settings.
func (a *app) newSession(ctx context.Context, g *grammar.Descriptor, buf buffer.Buffer) (*session.Session, error) {
	eng, err := a.engine(g)
	if err != nil {
		return nil, err
	}
	return session.New(ctx, buf, eng, session.Options{
		TabWidth:    a.cfg.Indent.TabWidth,
		IndentWidth: a.cfg.Indent.Unit(),
		UseTabs:     a.cfg.Indent.UseTabs,
		Classifier:  classify.Mode(a.cfg.Indent.Classifier),
		Logger:      logger.Tagged("session"),
	})
}

// loadFile reads path into a fresh buffer.
func loadFile(path string) (*buffer.SliceBuffer, error) {
	buf := buffer.NewSliceBuffer()
	if err := buf.Load(path); err != nil {
		return nil, err
	}
	return buf, nil
}
