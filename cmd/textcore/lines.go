package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var endEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`)

func newLinesCmd(a *app) *cobra.Command {
	var (
		from     int
		count    int
		number   bool
		showEnds bool
	)

	cmd := &cobra.Command{
		Use:   "lines FILE",
		Short: "Print lines of a file",
		Long: `Print lines of a file without their terminators.

Lines are numbered from 1. A file ending in a terminator has a final
empty line.

Examples:
  textcore lines notes.txt
  textcore lines notes.txt --from 10 --count 5 -n
  textcore lines dos.txt --show-ends`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if from < 1 {
				return fmt.Errorf("--from must be >= 1, got %d", from)
			}
			if count < 0 {
				return fmt.Errorf("--count must be >= 0, got %d", count)
			}

			doc, err := a.open(args[0])
			if err != nil {
				return err
			}

			total := doc.LineCount()
			last := total
			if count > 0 {
				last = min(from-1+count, total)
			}
			width := len(fmt.Sprint(last))

			out := cmd.OutOrStdout()
			for n := from - 1; n < last; n++ {
				line, _ := doc.GetLine(n)
				if number {
					fmt.Fprintf(out, "%*d  ", width, n+1)
				}
				fmt.Fprint(out, line)
				if showEnds {
					span, err := doc.LineSpan(n)
					if err != nil {
						return err
					}
					fmt.Fprint(out, endEscaper.Replace(doc.TextRange(span.Start+len(line), span.End)))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", 1, "first line to print")
	cmd.Flags().IntVar(&count, "count", 0, "number of lines to print (0 for all)")
	cmd.Flags().BoolVarP(&number, "number", "n", false, "prefix lines with their number")
	cmd.Flags().BoolVar(&showEnds, "show-ends", false, `show terminators as \n, \r\n or \r`)
	return cmd
}
