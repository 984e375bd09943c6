package main

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/textcore/internal/engine"
	"github.com/dshills/textcore/internal/fileio"
	"github.com/dshills/textcore/internal/logging"
	"github.com/dshills/textcore/internal/view"
)

func newViewCmd(a *app) *cobra.Command {
	var (
		readOnly bool
		noWatch  bool
	)

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Browse a file in the terminal",
		Long: `Browse a file in the terminal.

Keys:
  j, k, arrows       move by line
  PgDn, PgUp, Space  move by page
  g, G               first and last line
  d                  delete the current line
  u                  undo
  r, Ctrl-R          redo
  s, Ctrl-S          save
  q, Esc             quit

When FILE changes on disk it is reloaded, unless the document has unsaved
changes; the status line reports either case. When autosave is enabled in
the config, unsaved changes are written periodically to FILE plus the
autosave suffix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var extra []engine.Option
			if readOnly {
				extra = append(extra, engine.WithReadOnly())
			}
			doc, err := a.open(path, extra...)
			if err != nil {
				return err
			}
			shared := engine.NewLocked(doc)

			screen, err := a.newScreen()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if a.cfg.Autosave.Enabled && !doc.IsReadOnly() {
				saver := fileio.NewAutosaver(a.fs, shared, path+a.cfg.Autosave.Suffix,
					a.cfg.Autosave.Interval.Std(), logging.WithComponent(a.logger, "autosave"))
				saver.Start(ctx)
				defer saver.Stop()
			}

			v := view.New(screen, shared,
				view.WithTitle(filepath.Base(path)),
				view.WithLogger(logging.WithComponent(a.logger, "view")),
				view.WithSaveFunc(func(d *engine.Document) error {
					return fileio.Save(a.fs, path, d)
				}),
			)

			if !noWatch {
				watcher := fileio.NewWatcher(a.fs, shared, path,
					fileio.WithWatchLogger(logging.WithComponent(a.logger, "watch")),
					fileio.WithNotify(func(result fileio.SyncResult, err error) {
						if msg := syncStatus(result, err); msg != "" {
							v.Notify(msg)
						}
					}),
				)
				watchDone := make(chan struct{})
				go func() {
					defer close(watchDone)
					if err := watcher.Run(ctx); err != nil {
						a.logger.Warn("not watching file", slog.String("path", path), slog.Any("err", err))
					}
				}()
				defer func() {
					cancel()
					<-watchDone
				}()
			}

			return v.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&readOnly, "read-only", false, "open the file read-only")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the file when it changes on disk")
	return cmd
}

// syncStatus returns the status message for a file change, or "" when
// nothing needs reporting.
func syncStatus(result fileio.SyncResult, err error) string {
	switch {
	case err != nil:
		return "reload failed: " + err.Error()
	case result == fileio.SyncReloaded:
		return "reloaded from disk"
	case result == fileio.SyncKept:
		return "file changed on disk"
	default:
		return ""
	}
}
