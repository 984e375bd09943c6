package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine"
	"github.com/dshills/textcore/internal/fileio"
	"github.com/dshills/textcore/internal/logging"
)

// app holds state shared by all commands.
type app struct {
	cfgFile  string
	logLevel string

	cfg      *config.Config
	logger   *slog.Logger
	closeLog io.Closer

	fs        fileio.FS
	newScreen func() (tcell.Screen, error)
}

func newApp() *app {
	return &app{
		fs:        fileio.OSFS{},
		newScreen: tcell.NewScreen,
		logger:    logging.Discard(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "textcore",
		Short: "Inspect and edit text files with undoable edits",
		Long: `textcore loads a file into an editable document that keeps every
line ending exactly as written ("\n", "\r\n" or a lone "\r") and applies
edits as undoable commands.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: $XDG_CONFIG_HOME/textcore/config.toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"log level: debug, info, warn or error (overrides config)")

	root.AddCommand(
		newLinesCmd(a),
		newStatCmd(a),
		newEditCmd(a),
		newViewCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = strings.ToLower(a.logLevel)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger
	a.closeLog = closer

	a.logger.Debug("config loaded", slog.String("path", path), slog.String("command", cmd.Name()))
	return nil
}

func (a *app) teardown() error {
	if a.closeLog == nil {
		return nil
	}
	err := a.closeLog.Close()
	a.closeLog = nil
	return err
}

// documentOptions returns engine options derived from configuration.
func (a *app) documentOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithMaxUndoEntries(a.cfg.Editor.MaxUndoEntries),
		engine.WithIndexStrategy(a.cfg.IndexStrategy()),
		engine.WithLogger(logging.WithComponent(a.logger, "engine")),
	}
	if a.cfg.Editor.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}
	return opts
}

// open reads path into a new document.
func (a *app) open(path string, extra ...engine.Option) (*engine.Document, error) {
	doc, err := fileio.Open(a.fs, path, append(a.documentOptions(), extra...)...)
	if err != nil {
		return nil, err
	}
	a.logger.Info("opened",
		slog.String("path", path),
		slog.String("doc", doc.ID().String()),
		slog.Int("bytes", doc.Len()),
		slog.Int("lines", doc.LineCount()))
	return doc, nil
}
