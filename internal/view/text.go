package view

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// TabWidth is the number of columns a tab advances to.
const TabWidth = 4

// drawText draws s starting at column x of row y, clipped at maxX.
// Grapheme clusters are drawn as one cell sequence using their display
// width; tabs are expanded; control characters and invalid bytes are
// shown as replacement glyphs. It returns the column after the text.
func drawText(s tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	col := 0
	state := -1
	for len(text) > 0 && x < maxX {
		// Invalid UTF-8 is drawn byte by byte.
		if r, size := utf8.DecodeRuneInString(text); r == utf8.RuneError && size <= 1 {
			s.SetContent(x, y, '�', nil, style)
			x++
			col++
			text = text[1:]
			state = -1
			continue
		}

		cluster, rest, boundaries, newState := uniseg.StepString(text, state)
		text, state = rest, newState

		runes := []rune(cluster)
		switch {
		case runes[0] == '\t':
			n := TabWidth - col%TabWidth
			for i := 0; i < n && x < maxX; i++ {
				s.SetContent(x, y, ' ', nil, style)
				x++
			}
			col += n
		case runes[0] < 0x20 || runes[0] == 0x7F:
			// ^X notation for control characters
			s.SetContent(x, y, '^', nil, style)
			if x+1 < maxX {
				s.SetContent(x+1, y, rune(runes[0]^0x40), nil, style)
			}
			x += 2
			col += 2
		default:
			width := max(boundaries>>uniseg.ShiftWidth, 1)
			if x+width > maxX {
				return x
			}
			s.SetContent(x, y, runes[0], runes[1:], style)
			x += width
			col += width
		}
	}
	return x
}

// fill sets cells [x, maxX) of row y to blanks.
func fill(s tcell.Screen, x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

// textWidth returns the display width of plain text.
func textWidth(text string) int {
	return uniseg.StringWidth(text)
}
