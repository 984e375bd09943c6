package history

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/editerr"
)

// Command Tests

func TestInsertCommandExecute(t *testing.T) {
	buf := buffer.NewFromString("hello world")
	cmd := NewInsertCommand(5, " there")

	if err := cmd.Execute(buf); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if buf.Text() != "hello there world" {
		t.Errorf("got %q, want %q", buf.Text(), "hello there world")
	}
}

func TestInsertCommandInvert(t *testing.T) {
	buf := buffer.NewFromString("hello")
	cmd := NewInsertCommand(5, " world")

	if err := cmd.Execute(buf); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if err := cmd.Invert(buf); err != nil {
		t.Fatalf("Invert failed: %v", err)
	}

	if buf.Text() != "hello" {
		t.Errorf("got %q, want %q", buf.Text(), "hello")
	}
}

func TestDeleteCommandCapturesRemovedText(t *testing.T) {
	buf := buffer.NewFromString("one\r\ntwo")
	cmd := NewDeleteCommand(1, 4)

	if err := cmd.Execute(buf); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if cmd.Removed() != "ne\r\n" {
		t.Errorf("Removed() = %q, want %q", cmd.Removed(), "ne\r\n")
	}
	if buf.Text() != "otwo" || buf.LineCount() != 1 {
		t.Errorf("got %q with %d lines", buf.Text(), buf.LineCount())
	}

	if err := cmd.Invert(buf); err != nil {
		t.Fatalf("Invert failed: %v", err)
	}
	if buf.Text() != "one\r\ntwo" || buf.LineCount() != 2 {
		t.Errorf("got %q with %d lines", buf.Text(), buf.LineCount())
	}
}

func TestReplaceCommand(t *testing.T) {
	buf := buffer.NewFromString("Hello World")
	cmd := NewReplaceCommand(6, 5, "Go")

	if err := cmd.Execute(buf); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if buf.Text() != "Hello Go" {
		t.Errorf("got %q", buf.Text())
	}
	if cmd.Replaced() != "World" {
		t.Errorf("Replaced() = %q", cmd.Replaced())
	}

	if err := cmd.Invert(buf); err != nil {
		t.Fatalf("Invert failed: %v", err)
	}
	if buf.Text() != "Hello World" {
		t.Errorf("got %q", buf.Text())
	}
}

func TestInvertBeforeExecute(t *testing.T) {
	buf := buffer.NewFromString("hello")

	cmds := []Command{
		NewInsertCommand(0, "x"),
		NewDeleteCommand(0, 1),
		NewReplaceCommand(0, 1, "y"),
		NewCompoundCommand("group", NewInsertCommand(0, "z")),
	}
	for _, cmd := range cmds {
		err := cmd.Invert(buf)
		if !errors.Is(err, editerr.ErrNotExecuted) {
			t.Errorf("%s: expected NotExecuted, got %v", cmd.Description(), err)
		}
	}
	if buf.Text() != "hello" {
		t.Errorf("content changed: %q", buf.Text())
	}
}

func TestInvertTwice(t *testing.T) {
	buf := buffer.NewFromString("hello")
	cmd := NewDeleteCommand(0, 2)

	cmd.Execute(buf)
	if err := cmd.Invert(buf); err != nil {
		t.Fatalf("first Invert failed: %v", err)
	}
	if err := cmd.Invert(buf); !errors.Is(err, editerr.ErrNotExecuted) {
		t.Errorf("second Invert: expected NotExecuted, got %v", err)
	}
	if buf.Text() != "hello" {
		t.Errorf("got %q", buf.Text())
	}
}

func TestExecuteTwice(t *testing.T) {
	cmds := []Command{
		NewInsertCommand(0, "x"),
		NewDeleteCommand(0, 1),
		NewReplaceCommand(0, 1, "y"),
		NewCompoundCommand("group", NewInsertCommand(0, "z")),
	}
	for _, cmd := range cmds {
		buf := buffer.NewFromString("hello")
		if err := cmd.Execute(buf); err != nil {
			t.Fatalf("%s: first Execute failed: %v", cmd.Description(), err)
		}
		after := buf.Text()

		if err := cmd.Execute(buf); !errors.Is(err, editerr.ErrAlreadyExecuted) {
			t.Errorf("%s: expected AlreadyExecuted, got %v", cmd.Description(), err)
		}
		if buf.Text() != after {
			t.Errorf("%s: content changed: %q", cmd.Description(), buf.Text())
		}

		if err := cmd.Invert(buf); err != nil {
			t.Fatalf("%s: Invert failed: %v", cmd.Description(), err)
		}
		if err := cmd.Execute(buf); err != nil {
			t.Errorf("%s: Execute after Invert failed: %v", cmd.Description(), err)
		}
	}
}

func TestCompoundCommandRollsBackOnFailure(t *testing.T) {
	buf := buffer.NewFromString("abc")
	cmd := NewCompoundCommand("bad",
		NewInsertCommand(0, "x"),
		NewDeleteCommand(1, 1),
		NewDeleteCommand(10, 1), // out of range
	)

	err := cmd.Execute(buf)
	if !errors.Is(err, editerr.ErrOutOfRange) {
		t.Fatalf("expected OutOfRange, got %v", err)
	}
	if buf.Text() != "abc" {
		t.Errorf("buffer not restored: %q", buf.Text())
	}
}

var (
	errStuck = errors.New("stuck")
	errOnce  = errors.New("already ran")
)

// stuckCommand executes without editing and always fails to invert.
type stuckCommand struct{}

func (stuckCommand) Execute(*buffer.Buffer) error { return nil }
func (stuckCommand) Invert(*buffer.Buffer) error  { return errStuck }
func (stuckCommand) Description() string          { return "stuck" }

// onceCommand executes successfully only once and inverts without editing.
type onceCommand struct{ runs int }

func (c *onceCommand) Execute(*buffer.Buffer) error {
	c.runs++
	if c.runs > 1 {
		return errOnce
	}
	return nil
}
func (c *onceCommand) Invert(*buffer.Buffer) error { return nil }
func (c *onceCommand) Description() string         { return "once" }

func TestCompoundCommandReportsRollbackFailure(t *testing.T) {
	buf := buffer.NewFromString("abc")
	cmd := NewCompoundCommand("bad",
		NewInsertCommand(0, "x"),
		stuckCommand{},
		NewDeleteCommand(10, 1),
	)

	err := cmd.Execute(buf)
	if !errors.Is(err, editerr.ErrOutOfRange) {
		t.Errorf("expected OutOfRange, got %v", err)
	}
	if !errors.Is(err, errStuck) {
		t.Errorf("expected rollback failure in %v", err)
	}
	if !strings.Contains(err.Error(), "rollback step 1") {
		t.Errorf("error should name the failed rollback step: %v", err)
	}
}

func TestCompoundCommandReportsRestoreFailure(t *testing.T) {
	buf := buffer.New()
	cmd := NewCompoundCommand("bad", stuckCommand{}, &onceCommand{})

	if err := cmd.Execute(buf); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	err := cmd.Invert(buf)
	if !errors.Is(err, errStuck) || !errors.Is(err, errOnce) {
		t.Errorf("expected both failures, got %v", err)
	}
}

func TestCancelGroupFailureKeepsGroup(t *testing.T) {
	buf := buffer.New()
	h := New(0)

	h.BeginGroup("g", buf)
	h.Apply(NewInsertCommand(0, "a"), buf)
	h.Apply(stuckCommand{}, buf)
	h.Apply(NewInsertCommand(1, "b"), buf)

	err := h.CancelGroup(buf)
	if !errors.Is(err, errStuck) {
		t.Fatalf("expected stuck, got %v", err)
	}
	if buf.Text() != "ab" {
		t.Errorf("got %q, want edits restored", buf.Text())
	}
	if h.IsGrouping() || h.UndoCount() != 1 {
		t.Errorf("grouping %v, UndoCount() = %d", h.IsGrouping(), h.UndoCount())
	}
}

func TestCompoundCommandInvertOrder(t *testing.T) {
	buf := buffer.NewFromString("abc")
	cmd := NewCompoundCommand("edit",
		NewInsertCommand(3, "def"),
		NewDeleteCommand(0, 2),
		NewReplaceCommand(0, 1, "C"),
	)

	if err := cmd.Execute(buf); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if buf.Text() != "Cdef" {
		t.Fatalf("got %q", buf.Text())
	}
	if err := cmd.Invert(buf); err != nil {
		t.Fatalf("Invert failed: %v", err)
	}
	if buf.Text() != "abc" {
		t.Errorf("got %q", buf.Text())
	}
}

func TestCommandDescriptions(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{NewInsertCommand(0, "\n"), "Insert newline"},
		{NewInsertCommand(0, "\t"), "Insert tab"},
		{NewInsertCommand(0, "a"), "Type 'a'"},
		{NewInsertCommand(0, "hello"), `Insert "hello"`},
		{NewInsertCommand(0, strings.Repeat("x", 30)), "Insert 30 characters"},
		{NewDeleteCommand(0, 1), "Delete"},
		{NewDeleteCommand(0, 4), "Delete 4 bytes"},
		{NewReplaceCommand(0, 3, "ab"), "Replace 3 bytes with 2 characters"},
		{NewCompoundCommand("Indent"), "Indent"},
		{NewCompoundCommand("", NewDeleteCommand(0, 1)), "Delete"},
		{NewCompoundCommand("", NewDeleteCommand(0, 1), NewDeleteCommand(0, 1)), "2 operations"},
	}
	for _, tt := range tests {
		if got := tt.cmd.Description(); got != tt.want {
			t.Errorf("Description() = %q, want %q", got, tt.want)
		}
	}
}

// History Tests

func TestHistoryApplyUndoRedo(t *testing.T) {
	buf := buffer.NewFromString("hello")
	h := New(0)

	if err := h.Apply(NewInsertCommand(5, " world"), buf); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if buf.Text() != "hello world" {
		t.Fatalf("got %q", buf.Text())
	}

	if err := h.Undo(buf); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if buf.Text() != "hello" {
		t.Fatalf("after undo got %q", buf.Text())
	}

	if err := h.Redo(buf); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if buf.Text() != "hello world" {
		t.Fatalf("after redo got %q", buf.Text())
	}
}

func TestHistoryApplyFailureIsDiscarded(t *testing.T) {
	buf := buffer.NewFromString("hello")
	h := New(0)

	err := h.Apply(NewDeleteCommand(1, 10), buf)
	if !errors.Is(err, editerr.ErrOutOfRange) {
		t.Fatalf("expected OutOfRange, got %v", err)
	}
	if buf.Text() != "hello" {
		t.Errorf("content changed: %q", buf.Text())
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("failed command should not be recorded")
	}
}

func TestHistoryApplyFailureKeepsRedo(t *testing.T) {
	buf := buffer.NewFromString("hello")
	h := New(0)

	h.Apply(NewInsertCommand(0, "x"), buf)
	h.Undo(buf)

	if err := h.Apply(NewInsertCommand(99, "y"), buf); err == nil {
		t.Fatal("expected error")
	}
	if !h.CanRedo() {
		t.Error("a failed apply must not clear the redo stack")
	}
}

func TestHistoryEmptyStacks(t *testing.T) {
	buf := buffer.New()
	h := New(0)

	if err := h.Undo(buf); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo: expected ErrNothingToUndo, got %v", err)
	}
	if err := h.Redo(buf); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo: expected ErrNothingToRedo, got %v", err)
	}
	if editerr.KindOf(h.Undo(buf)) != editerr.NothingToUndo {
		t.Error("KindOf should report NothingToUndo")
	}
}

func TestHistoryApplySameCommandTwice(t *testing.T) {
	buf := buffer.New()
	h := New(0)
	cmd := NewInsertCommand(0, "a")

	if err := h.Apply(cmd, buf); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := h.Apply(cmd, buf); !errors.Is(err, editerr.ErrAlreadyExecuted) {
		t.Fatalf("second Apply: expected AlreadyExecuted, got %v", err)
	}
	if buf.Text() != "a" || h.UndoCount() != 1 {
		t.Fatalf("text %q, UndoCount() = %d", buf.Text(), h.UndoCount())
	}

	if err := h.Undo(buf); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if buf.Text() != "" || h.CanUndo() {
		t.Errorf("text %q, UndoCount() = %d", buf.Text(), h.UndoCount())
	}
}

func TestHistoryRedoInvalidation(t *testing.T) {
	buf := buffer.New()
	h := New(0)

	h.Apply(NewInsertCommand(0, "A"), buf)
	if err := h.Undo(buf); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	h.Apply(NewInsertCommand(0, "B"), buf)

	if err := h.Redo(buf); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
	if buf.Text() != "B" {
		t.Errorf("got %q", buf.Text())
	}
}

func TestHistoryUndoFailureDropsCommand(t *testing.T) {
	buf := buffer.NewFromString("hello")
	h := New(0)

	h.Apply(NewInsertCommand(5, " world"), buf)
	h.Apply(NewInsertCommand(0, ">"), buf)

	// Shrink the buffer behind the history's back so the newest inversion
	// is out of range.
	buf.Load("")

	err := h.Undo(buf)
	if !errors.Is(err, editerr.ErrOutOfRange) {
		t.Fatalf("expected OutOfRange, got %v", err)
	}
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", h.UndoCount())
	}
	if h.CanRedo() {
		t.Error("failed undo must not be pushed to the redo stack")
	}
}

func TestHistoryRedoFailureDropsCommand(t *testing.T) {
	buf := buffer.NewFromString("hello")
	h := New(0)

	h.Apply(NewDeleteCommand(3, 2), buf)
	h.Undo(buf)
	buf.Load("x")

	if err := h.Redo(buf); !errors.Is(err, editerr.ErrOutOfRange) {
		t.Fatalf("expected OutOfRange, got %v", err)
	}
	if h.CanRedo() || h.CanUndo() {
		t.Error("failed redo must not be pushed anywhere")
	}
	if buf.Text() != "x" {
		t.Errorf("content changed: %q", buf.Text())
	}
}

func TestHistoryMultipleUndoRedo(t *testing.T) {
	buf := buffer.New()
	h := New(0)

	for _, s := range []string{"a", "b", "c"} {
		h.Apply(NewInsertCommand(buf.Len(), s), buf)
	}
	if buf.Text() != "abc" {
		t.Fatalf("got %q", buf.Text())
	}

	for _, want := range []string{"ab", "a", ""} {
		if err := h.Undo(buf); err != nil {
			t.Fatalf("Undo failed: %v", err)
		}
		if buf.Text() != want {
			t.Errorf("got %q, want %q", buf.Text(), want)
		}
	}

	for _, want := range []string{"a", "ab", "abc"} {
		if err := h.Redo(buf); err != nil {
			t.Fatalf("Redo failed: %v", err)
		}
		if buf.Text() != want {
			t.Errorf("got %q, want %q", buf.Text(), want)
		}
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	buf := buffer.New()
	h := New(2)

	for i := 0; i < 5; i++ {
		h.Apply(NewInsertCommand(0, "x"), buf)
	}
	if h.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", h.UndoCount())
	}

	h.SetMaxEntries(1)
	if h.UndoCount() != 1 || h.MaxEntries() != 1 {
		t.Errorf("UndoCount() = %d MaxEntries() = %d", h.UndoCount(), h.MaxEntries())
	}
}

func TestHistoryInfo(t *testing.T) {
	buf := buffer.NewFromString("hello")
	h := New(0)

	h.Apply(NewInsertCommand(5, "!!"), buf)
	h.Apply(NewDeleteCommand(0, 1), buf)

	info, ok := h.PeekUndo()
	if !ok || info.Description != "Delete" || info.BytesDelta != -1 {
		t.Errorf("PeekUndo() = %+v, %v", info, ok)
	}
	if info.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	all := h.UndoInfo()
	if len(all) != 2 || all[0].BytesDelta != 2 {
		t.Errorf("UndoInfo() = %+v", all)
	}

	h.Undo(buf)
	if r, ok := h.PeekRedo(); !ok || r.Description != "Delete" {
		t.Errorf("PeekRedo() = %+v, %v", r, ok)
	}
	if len(h.RedoInfo()) != 1 {
		t.Errorf("RedoInfo() = %+v", h.RedoInfo())
	}
}

func TestHistoryClear(t *testing.T) {
	buf := buffer.New()
	h := New(0)

	h.Apply(NewInsertCommand(0, "a"), buf)
	h.Apply(NewInsertCommand(0, "b"), buf)
	h.Undo(buf)
	h.Clear()

	if h.CanUndo() || h.CanRedo() {
		t.Error("history should be empty after Clear")
	}
}

// Grouping Tests

func TestHistoryGroup(t *testing.T) {
	buf := buffer.NewFromString("abc")
	h := New(0)

	h.BeginGroup("Wrap", buf)
	h.Apply(NewInsertCommand(0, "("), buf)
	h.Apply(NewInsertCommand(4, ")"), buf)
	h.EndGroup(buf)

	if buf.Text() != "(abc)" {
		t.Fatalf("got %q", buf.Text())
	}
	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1", h.UndoCount())
	}
	if info, _ := h.PeekUndo(); info.Description != "Wrap" || info.BytesDelta != 2 {
		t.Errorf("PeekUndo() = %+v", info)
	}

	h.Undo(buf)
	if buf.Text() != "abc" {
		t.Errorf("after undo got %q", buf.Text())
	}
	h.Redo(buf)
	if buf.Text() != "(abc)" {
		t.Errorf("after redo got %q", buf.Text())
	}
}

func TestHistoryEmptyGroupRecordsNothing(t *testing.T) {
	buf := buffer.New()
	h := New(0)

	h.BeginGroup("nothing", buf)
	h.EndGroup(buf)

	if h.CanUndo() {
		t.Error("empty group should not be recorded")
	}
}

func TestHistoryUndoRedoRejectedInGroup(t *testing.T) {
	buf := buffer.New()
	h := New(0)

	h.Apply(NewInsertCommand(0, "a"), buf)
	h.Undo(buf)

	h.BeginGroup("typing", buf)
	h.Apply(NewInsertCommand(0, "b"), buf)

	if err := h.Undo(buf); !errors.Is(err, editerr.ErrGroupOpen) {
		t.Fatalf("Undo: expected GroupOpen, got %v", err)
	}
	if err := h.Redo(buf); !errors.Is(err, editerr.ErrGroupOpen) {
		t.Fatalf("Redo: expected GroupOpen, got %v", err)
	}
	if !h.IsGrouping() || buf.Text() != "b" {
		t.Fatalf("grouping %v, text %q", h.IsGrouping(), buf.Text())
	}

	h.EndGroup(buf)
	if err := h.Undo(buf); err != nil {
		t.Fatalf("Undo after EndGroup failed: %v", err)
	}
	if buf.Text() != "" {
		t.Errorf("got %q", buf.Text())
	}
}

func TestNestedGroupsRecordOneEntry(t *testing.T) {
	buf := buffer.New()
	h := New(0)

	h.BeginGroup("outer", buf)
	h.Apply(NewInsertCommand(0, "x"), buf)
	h.BeginGroup("inner", buf)
	h.Apply(NewInsertCommand(1, "y"), buf)
	h.EndGroup(buf)
	if h.GroupDepth() != 1 || h.CanUndo() {
		t.Fatalf("inner EndGroup: depth %d, UndoCount() = %d", h.GroupDepth(), h.UndoCount())
	}
	h.Apply(NewInsertCommand(2, "z"), buf)
	h.EndGroup(buf)

	if buf.Text() != "xyz" || h.UndoCount() != 1 {
		t.Fatalf("text %q, UndoCount() = %d", buf.Text(), h.UndoCount())
	}
	if info, _ := h.PeekUndo(); info.Description != "outer" || info.BytesDelta != 3 {
		t.Errorf("PeekUndo() = %+v", info)
	}
	h.Undo(buf)
	if buf.Text() != "" {
		t.Errorf("after undo got %q", buf.Text())
	}
}

func TestNestedCancelRevertsInnerOnly(t *testing.T) {
	buf := buffer.NewFromString("-")
	h := New(0)

	h.BeginGroup("outer", buf)
	h.Apply(NewInsertCommand(0, "a"), buf)
	scope := h.GroupScope("inner", buf)
	h.Apply(NewInsertCommand(2, "b"), buf)
	if err := scope.Cancel(); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if buf.Text() != "a-" || h.GroupDepth() != 1 {
		t.Fatalf("text %q, depth %d", buf.Text(), h.GroupDepth())
	}
	h.EndGroup(buf)

	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1", h.UndoCount())
	}
	h.Undo(buf)
	if buf.Text() != "-" {
		t.Errorf("after undo got %q", buf.Text())
	}
}

func TestGroupScope(t *testing.T) {
	buf := buffer.NewFromString("x")
	h := New(0)

	func() {
		defer h.GroupScope("scope", buf).End()
		h.Apply(NewInsertCommand(1, "y"), buf)
		h.Apply(NewInsertCommand(2, "z"), buf)
	}()

	if h.UndoCount() != 1 || buf.Text() != "xyz" {
		t.Errorf("UndoCount() = %d text %q", h.UndoCount(), buf.Text())
	}
}

func TestGroupScopeCancel(t *testing.T) {
	buf := buffer.NewFromString("x")
	h := New(0)

	scope := h.GroupScope("scope", buf)
	h.Apply(NewInsertCommand(1, "y"), buf)
	if err := scope.Cancel(); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	scope.End()

	if h.CanUndo() || buf.Text() != "x" {
		t.Errorf("UndoCount() = %d text %q", h.UndoCount(), buf.Text())
	}
}

func TestTransactionRevertsOnError(t *testing.T) {
	buf := buffer.NewFromString("keep")
	h := New(0)
	boom := errors.New("boom")

	err := h.Transaction("t", buf, func() error {
		h.Apply(NewInsertCommand(0, "lost "), buf)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if buf.Text() != "keep" || h.CanUndo() {
		t.Errorf("text %q, UndoCount() = %d", buf.Text(), h.UndoCount())
	}
}

func TestApplyGroupedAtomic(t *testing.T) {
	buf := buffer.NewFromString("abc")
	h := New(0)

	err := h.ApplyGrouped("batch", buf,
		NewInsertCommand(0, "1"),
		NewInsertCommand(100, "2"),
	)
	if !errors.Is(err, editerr.ErrOutOfRange) {
		t.Fatalf("expected OutOfRange, got %v", err)
	}
	if buf.Text() != "abc" || h.CanUndo() {
		t.Errorf("text %q, UndoCount() = %d", buf.Text(), h.UndoCount())
	}

	if err := h.ApplyGrouped("batch", buf, NewInsertCommand(0, "1"), NewInsertCommand(4, "2")); err != nil {
		t.Fatalf("ApplyGrouped failed: %v", err)
	}
	if buf.Text() != "1abc2" || h.UndoCount() != 1 {
		t.Errorf("text %q, UndoCount() = %d", buf.Text(), h.UndoCount())
	}
}

func TestNestedTransactionFailureKeepsOuterEdits(t *testing.T) {
	buf := buffer.New()
	h := New(0)
	boom := errors.New("boom")

	err := h.Transaction("outer", buf, func() error {
		h.Apply(NewInsertCommand(0, "x"), buf)
		inner := h.Transaction("inner", buf, func() error {
			h.Apply(NewInsertCommand(1, "y"), buf)
			return boom
		})
		if !errors.Is(inner, boom) {
			t.Errorf("inner: expected boom, got %v", inner)
		}
		return h.Apply(NewInsertCommand(1, "z"), buf)
	})
	if err != nil {
		t.Fatalf("outer failed: %v", err)
	}
	if buf.Text() != "xz" || h.UndoCount() != 1 {
		t.Fatalf("text %q, UndoCount() = %d", buf.Text(), h.UndoCount())
	}
	h.Undo(buf)
	if buf.Text() != "" {
		t.Errorf("after undo got %q", buf.Text())
	}
}

func TestNestedTransactionSuccessIsOneUnit(t *testing.T) {
	buf := buffer.New()
	h := New(0)

	err := h.Transaction("outer", buf, func() error {
		h.Apply(NewInsertCommand(0, "x"), buf)
		if err := h.Transaction("inner", buf, func() error {
			return h.Apply(NewInsertCommand(1, "y"), buf)
		}); err != nil {
			return err
		}
		return h.Apply(NewInsertCommand(2, "z"), buf)
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}
	if buf.Text() != "xyz" || h.UndoCount() != 1 {
		t.Fatalf("text %q, UndoCount() = %d", buf.Text(), h.UndoCount())
	}
	h.Undo(buf)
	if buf.Text() != "" {
		t.Errorf("after undo got %q", buf.Text())
	}
}

func TestOuterTransactionFailureRevertsInner(t *testing.T) {
	buf := buffer.NewFromString("keep")
	h := New(0)
	boom := errors.New("boom")

	err := h.Transaction("outer", buf, func() error {
		h.Apply(NewInsertCommand(0, "a"), buf)
		h.Transaction("inner", buf, func() error {
			return h.Apply(NewInsertCommand(1, "b"), buf)
		})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if buf.Text() != "keep" || h.CanUndo() || h.IsGrouping() {
		t.Errorf("text %q, UndoCount() = %d, grouping %v", buf.Text(), h.UndoCount(), h.IsGrouping())
	}
}

func TestTransactionUndoInsideIsRejected(t *testing.T) {
	buf := buffer.New()
	h := New(0)
	boom := errors.New("boom")

	err := h.Transaction("t", buf, func() error {
		h.Apply(NewInsertCommand(0, "a"), buf)
		if err := h.Undo(buf); !errors.Is(err, editerr.ErrGroupOpen) {
			t.Errorf("Undo: expected GroupOpen, got %v", err)
		}
		h.Apply(NewInsertCommand(1, "b"), buf)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if buf.Text() != "" || h.CanUndo() {
		t.Errorf("text %q, UndoCount() = %d", buf.Text(), h.UndoCount())
	}
}

func TestTransactionGroupClosedInside(t *testing.T) {
	buf := buffer.New()
	h := New(0)

	err := h.Transaction("t", buf, func() error {
		h.Apply(NewInsertCommand(0, "a"), buf)
		h.EndGroup(buf)
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "group closed") {
		t.Fatalf("expected group closed error, got %v", err)
	}
	if h.IsGrouping() {
		t.Error("no group should remain open")
	}
}

func TestTransactionClosesGroupsLeftOpen(t *testing.T) {
	buf := buffer.New()
	h := New(0)

	err := h.Transaction("t", buf, func() error {
		h.BeginGroup("left open", buf)
		return h.Apply(NewInsertCommand(0, "a"), buf)
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}
	if h.IsGrouping() || h.UndoCount() != 1 {
		t.Errorf("grouping %v, UndoCount() = %d", h.IsGrouping(), h.UndoCount())
	}
}

func TestCheckpoints(t *testing.T) {
	buf := buffer.New()
	h := New(0)

	h.Apply(NewInsertCommand(0, "a"), buf)
	cp := h.CreateCheckpoint()
	h.Apply(NewInsertCommand(1, "b"), buf)
	h.Apply(NewInsertCommand(2, "c"), buf)

	if err := h.UndoToCheckpoint(cp, buf); err != nil {
		t.Fatalf("UndoToCheckpoint failed: %v", err)
	}
	if buf.Text() != "a" {
		t.Errorf("got %q", buf.Text())
	}

	end := Checkpoint{undoDepth: 3}
	if err := h.RedoToCheckpoint(end, buf); err != nil {
		t.Fatalf("RedoToCheckpoint failed: %v", err)
	}
	if buf.Text() != "abc" {
		t.Errorf("got %q", buf.Text())
	}
}
