package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textcore/internal/engine"
	"github.com/dshills/textcore/internal/engine/editerr"
)

// docModule implements the doc API table.
type docModule struct {
	doc *engine.Document

	// lastErr is the most recent edit error raised into Lua, with the
	// message it was raised with.
	lastErr error
	lastMsg string
}

// register installs the module as the global table "doc".
func (m *docModule) register(L *lua.LState) {
	mod := L.NewTable()

	L.SetField(mod, "text", L.NewFunction(m.text))
	L.SetField(mod, "len", L.NewFunction(m.docLen))
	L.SetField(mod, "line_count", L.NewFunction(m.lineCount))
	L.SetField(mod, "line", L.NewFunction(m.line))
	L.SetField(mod, "insert", L.NewFunction(m.insert))
	L.SetField(mod, "delete", L.NewFunction(m.delete))
	L.SetField(mod, "replace", L.NewFunction(m.replace))
	L.SetField(mod, "undo", L.NewFunction(m.undo))
	L.SetField(mod, "redo", L.NewFunction(m.redo))
	L.SetField(mod, "can_undo", L.NewFunction(m.canUndo))
	L.SetField(mod, "can_redo", L.NewFunction(m.canRedo))
	L.SetField(mod, "group", L.NewFunction(m.group))

	L.SetGlobal("doc", mod)
}

// raise converts an edit error into a Lua error whose message starts with
// the error kind name.
func (m *docModule) raise(L *lua.LState, fn string, err error) {
	kind := editerr.KindOf(err)
	m.lastErr = err
	if kind == editerr.KindUnknown {
		m.lastMsg = fn + ": " + err.Error()
	} else {
		m.lastMsg = kind.String() + ": " + err.Error()
	}
	L.RaiseError("%s", m.lastMsg)
}

// text() -> string
func (m *docModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.doc.Text()))
	return 1
}

// len() -> number
// Returns the document length in bytes.
func (m *docModule) docLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.doc.Len()))
	return 1
}

// line_count() -> number
func (m *docModule) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.doc.LineCount()))
	return 1
}

// line(n) -> string|nil
// Returns line n (0-based) without its terminator, or nil past the end.
func (m *docModule) line(L *lua.LState) int {
	n := L.CheckInt(1)

	text, ok := m.doc.GetLine(n)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(text))
	return 1
}

// insert(pos, text)
func (m *docModule) insert(L *lua.LState) int {
	pos := L.CheckInt(1)
	text := L.CheckString(2)

	if err := m.doc.Insert(pos, text); err != nil {
		m.raise(L, "insert", err)
	}
	return 0
}

// delete(pos, n) -> removed
func (m *docModule) delete(L *lua.LState) int {
	pos := L.CheckInt(1)
	n := L.CheckInt(2)

	removed, err := m.doc.Delete(pos, n)
	if err != nil {
		m.raise(L, "delete", err)
		return 0
	}
	L.Push(lua.LString(removed))
	return 1
}

// replace(pos, n, text) -> replaced
func (m *docModule) replace(L *lua.LState) int {
	pos := L.CheckInt(1)
	n := L.CheckInt(2)
	text := L.CheckString(3)

	replaced, err := m.doc.Replace(pos, n, text)
	if err != nil {
		m.raise(L, "replace", err)
		return 0
	}
	L.Push(lua.LString(replaced))
	return 1
}

// undo()
func (m *docModule) undo(L *lua.LState) int {
	if err := m.doc.Undo(); err != nil {
		m.raise(L, "undo", err)
	}
	return 0
}

// redo()
func (m *docModule) redo(L *lua.LState) int {
	if err := m.doc.Redo(); err != nil {
		m.raise(L, "redo", err)
	}
	return 0
}

// can_undo() -> bool
func (m *docModule) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(m.doc.CanUndo()))
	return 1
}

// can_redo() -> bool
func (m *docModule) canRedo(L *lua.LState) int {
	L.Push(lua.LBool(m.doc.CanRedo()))
	return 1
}

// group(name, fn)
// Runs fn so that its edits undo as one unit. If fn raises an error, its
// edits are reverted and the error is raised again.
func (m *docModule) group(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	var raised lua.LValue
	err := m.doc.Transaction(name, func() error {
		L.Push(fn)
		if err := L.PCall(0, 0, nil); err != nil {
			if apiErr, ok := err.(*lua.ApiError); ok {
				raised = apiErr.Object
			}
			return err
		}
		return nil
	})
	if err == nil {
		return 0
	}

	if raised != nil {
		L.Error(raised, 0)
		return 0
	}
	m.raise(L, "group", err)
	return 0
}
