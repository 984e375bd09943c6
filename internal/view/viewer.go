// Package view implements a terminal viewer for a document.
//
// The viewer is a rendering collaborator: it reads the document through
// its public API, draws the visible lines with tcell, and turns a few keys
// into undoable edits.
//
// Keys:
//
//	j, Down        next line
//	k, Up          previous line
//	PgDn, Space    next page
//	PgUp, b        previous page
//	g, Home        first line
//	G, End         last line
//	d              delete the current line
//	u              undo
//	r, Ctrl-R      redo
//	s, Ctrl-S      save
//	q, Esc, Ctrl-C quit
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textcore/internal/engine"
)

// SaveFunc persists the document. It is called with exclusive access.
type SaveFunc func(doc *engine.Document) error

// Viewer displays a document on a tcell screen.
type Viewer struct {
	screen tcell.Screen
	doc    *engine.Locked
	title  string
	save   SaveFunc
	logger *slog.Logger

	top    int // first visible line
	line   int // current line
	status string
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithTitle sets the name shown in the status line.
func WithTitle(title string) Option {
	return func(v *Viewer) {
		v.title = title
	}
}

// WithSaveFunc enables saving with the s key.
func WithSaveFunc(fn SaveFunc) Option {
	return func(v *Viewer) {
		v.save = fn
	}
}

// WithLogger sets the logger for viewer events.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Viewer) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// New creates a viewer drawing doc on screen. The screen must not be
// initialized yet; Run initializes and finalizes it.
func New(screen tcell.Screen, doc *engine.Locked, opts ...Option) *Viewer {
	v := &Viewer{
		screen: screen,
		doc:    doc,
		title:  "[scratch]",
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run shows the document until the user quits or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	if err := v.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer v.screen.Fini()

	v.screen.HideCursor()

	stop := context.AfterFunc(ctx, func() {
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort; queue may be full
	})
	defer stop()

	for {
		v.Draw()

		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return nil
		}
		if v.HandleEvent(ev) {
			return nil
		}
	}
}

// HandleEvent processes one event and reports whether the viewer should
// quit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventInterrupt:
		if msg, ok := ev.Data().(string); ok {
			v.status = msg
			v.moveTo(v.line)
		}
	}
	return false
}

// Notify shows msg in the status line and redraws. It may be called from
// any goroutine, for example after the document was reloaded.
func (v *Viewer) Notify(msg string) {
	_ = v.screen.PostEvent(tcell.NewEventInterrupt(msg)) // best-effort; queue may be full
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	page := max(v.textRows()-1, 1)

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyDown:
		v.moveTo(v.line + 1)
	case tcell.KeyUp:
		v.moveTo(v.line - 1)
	case tcell.KeyPgDn:
		v.moveTo(v.line + page)
	case tcell.KeyPgUp:
		v.moveTo(v.line - page)
	case tcell.KeyHome:
		v.moveTo(0)
	case tcell.KeyEnd:
		v.moveTo(v.lineCount() - 1)
	case tcell.KeyCtrlR:
		v.redo()
	case tcell.KeyCtrlS:
		v.doSave()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'j':
			v.moveTo(v.line + 1)
		case 'k':
			v.moveTo(v.line - 1)
		case ' ':
			v.moveTo(v.line + page)
		case 'b':
			v.moveTo(v.line - page)
		case 'g':
			v.moveTo(0)
		case 'G':
			v.moveTo(v.lineCount() - 1)
		case 'd':
			v.deleteLine()
		case 'u':
			v.undo()
		case 'r':
			v.redo()
		case 's':
			v.doSave()
		}
	}
	return false
}

// Line returns the current line.
func (v *Viewer) Line() int {
	return v.line
}

// Status returns the current status message.
func (v *Viewer) Status() string {
	return v.status
}

func (v *Viewer) lineCount() int {
	n := 1
	_ = v.doc.Do(func(d *engine.Document) error {
		n = d.LineCount()
		return nil
	})
	return n
}

// textRows returns the number of rows available for text.
func (v *Viewer) textRows() int {
	_, h := v.screen.Size()
	return max(h-1, 0)
}

// moveTo makes line current, clamped to the document, and scrolls it into
// view.
func (v *Viewer) moveTo(line int) {
	v.line = min(max(line, 0), v.lineCount()-1)

	rows := v.textRows()
	switch {
	case v.line < v.top:
		v.top = v.line
	case rows > 0 && v.line >= v.top+rows:
		v.top = v.line - rows + 1
	}
}

func (v *Viewer) deleteLine() {
	err := v.doc.Do(func(d *engine.Document) error {
		span, err := d.LineSpan(v.line)
		if err != nil {
			return err
		}
		if span.IsEmpty() {
			return nil
		}
		d.BeginUndoGroup("Delete line " + strconv.Itoa(v.line+1))
		defer d.EndUndoGroup()
		_, err = d.Delete(span.Start, span.Len())
		return err
	})
	v.report("deleted line", err)
	v.moveTo(v.line)
}

func (v *Viewer) undo() {
	err := v.doc.Do(func(d *engine.Document) error { return d.Undo() })
	v.report("undo", err)
	v.moveTo(v.line)
}

func (v *Viewer) redo() {
	err := v.doc.Do(func(d *engine.Document) error { return d.Redo() })
	v.report("redo", err)
	v.moveTo(v.line)
}

func (v *Viewer) doSave() {
	if v.save == nil {
		v.status = "save not available"
		return
	}
	err := v.doc.Do(func(d *engine.Document) error { return v.save(d) })
	v.report("saved", err)
}

func (v *Viewer) report(done string, err error) {
	switch {
	case err == nil:
		v.status = done
	case errors.Is(err, engine.ErrNothingToUndo), errors.Is(err, engine.ErrNothingToRedo):
		v.status = err.Error()
	case errors.Is(err, engine.ErrReadOnly):
		v.status = "read-only"
	default:
		v.status = "error: " + err.Error()
		v.logger.Warn("viewer action failed", slog.String("action", done), slog.Any("err", err))
	}
}

// Draw renders the visible lines and the status line.
func (v *Viewer) Draw() {
	w, h := v.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}

	plain := tcell.StyleDefault
	current := plain.Reverse(true)
	gutterStyle := plain.Dim(true)
	statusStyle := plain.Reverse(true).Bold(true)

	_ = v.doc.Do(func(d *engine.Document) error {
		count := d.LineCount()
		gutter := len(strconv.Itoa(count)) + 1

		for row := 0; row < h-1; row++ {
			n := v.top + row
			text, ok := d.GetLine(n)
			if !ok {
				fill(v.screen, 0, row, w, plain)
				v.screen.SetContent(0, row, '~', nil, gutterStyle)
				continue
			}

			style := plain
			if n == v.line {
				style = current
			}
			num := fmt.Sprintf("%*d ", gutter-1, n+1)
			x := drawText(v.screen, 0, row, w, num, gutterStyle)
			x = drawText(v.screen, x, row, w, text, style)
			fill(v.screen, x, row, w, style)
		}

		left := fmt.Sprintf(" %s", v.title)
		if d.Modified() {
			left += " [+]"
		}
		if d.IsReadOnly() {
			left += " [RO]"
		}
		right := fmt.Sprintf("%s  %d/%d  %s ", v.status, v.line+1, count, d.LineEnding().Name())
		x := drawText(v.screen, 0, h-1, w, left, statusStyle)
		fill(v.screen, x, h-1, w, statusStyle)
		drawText(v.screen, max(w-textWidth(right), x), h-1, w, right, statusStyle)
		return nil
	})

	v.screen.Show()
}
