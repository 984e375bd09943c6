package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dshills/textcore/internal/fileio"
	"github.com/dshills/textcore/internal/logging"
	"github.com/dshills/textcore/internal/script"
)

func newEditCmd(a *app) *cobra.Command {
	var (
		scriptPath string
		outPath    string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "edit FILE",
		Short: "Edit a file with a Lua script",
		Long: `Run a Lua script against a file and write the result.

The script sees the file through the global "doc" table:

  doc.text()  doc.len()  doc.line_count()  doc.line(n)
  doc.insert(pos, text)  doc.delete(pos, n)  doc.replace(pos, n, text)
  doc.undo()  doc.redo()  doc.can_undo()  doc.can_redo()
  doc.group(name, fn)

Positions are 0-based byte offsets. A failed edit raises a Lua error such
as "OutOfRange: ..." and leaves the text unchanged. If the script fails,
nothing is written.

Examples:
  textcore edit notes.txt --script trim.lua
  textcore edit notes.txt --script trim.lua -o notes.out.txt
  textcore edit notes.txt --script trim.lua --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			doc, err := a.open(path)
			if err != nil {
				return err
			}

			runner := script.New(
				script.WithTimeout(a.cfg.Script.Timeout.Std()),
				script.WithOutput(cmd.ErrOrStderr()),
				script.WithLogger(logging.WithComponent(a.logger, "script")),
			)
			if err := runner.RunFile(cmd.Context(), doc, scriptPath); err != nil {
				return err
			}

			a.logger.Info("script finished",
				slog.String("script", scriptPath),
				slog.Int("edits", doc.UndoCount()),
				slog.Bool("modified", doc.Modified()))

			if dryRun {
				_, err := fmt.Fprint(cmd.OutOrStdout(), doc.SaveContent())
				return err
			}

			target := path
			if outPath != "" {
				target = outPath
			}
			if !doc.Modified() && target == path {
				a.logger.Debug("unchanged, not writing", slog.String("path", path))
				return nil
			}
			return fileio.Save(a.fs, target, doc)
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "Lua script to run (required)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the result here instead of FILE")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the result instead of writing it")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}
