package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/textcore/internal/engine"
	"github.com/dshills/textcore/internal/fileio"
)

func newStatCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stat FILE",
		Short: "Show size, line count and line endings of a file",
		Long: `Show size, line count and line endings of a file.

The dominant line ending is the most frequent terminator style; ties
prefer crlf, then cr. A file without terminators reports lf. A file is mixed when it uses more than
one style.

Examples:
  textcore stat notes.txt
  textcore stat notes.txt --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.open(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				out, err := statJSON(args[0], doc)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
				return err
			}

			counts := doc.LineEndingCounts()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:    %s\n", args[0])
			fmt.Fprintf(out, "bytes:   %d\n", doc.Len())
			fmt.Fprintf(out, "lines:   %d\n", doc.LineCount())
			fmt.Fprintf(out, "ending:  %s\n", doc.LineEnding().Name())
			fmt.Fprintf(out, "lf:      %d\n", counts.LF)
			fmt.Fprintf(out, "crlf:    %d\n", counts.CRLF)
			fmt.Fprintf(out, "cr:      %d\n", counts.CR)
			fmt.Fprintf(out, "mixed:   %t\n", counts.Mixed())
			fmt.Fprintf(out, "binary:  %t\n", fileio.IsBinary([]byte(doc.Text())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func statJSON(path string, doc *engine.Document) (string, error) {
	counts := doc.LineEndingCounts()
	fields := []struct {
		path  string
		value any
	}{
		{"file", path},
		{"bytes", doc.Len()},
		{"lines", doc.LineCount()},
		{"ending", doc.LineEnding().Name()},
		{"terminators.lf", counts.LF},
		{"terminators.crlf", counts.CRLF},
		{"terminators.cr", counts.CR},
		{"mixed", counts.Mixed()},
		{"binary", fileio.IsBinary([]byte(doc.Text()))},
	}

	js := "{}"
	for _, f := range fields {
		var err error
		if js, err = sjson.Set(js, f.path, f.value); err != nil {
			return "", fmt.Errorf("encoding %s: %w", f.path, err)
		}
	}
	return js, nil
}
