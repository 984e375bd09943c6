package history

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/editerr"
)

// Command represents a reversible edit.
type Command interface {
	// Execute applies the command. On error the buffer is unchanged.
	Execute(buf *buffer.Buffer) error

	// Invert reverses a previous Execute. On error the buffer is unchanged.
	Invert(buf *buffer.Buffer) error

	// Description returns a human-readable description of the command.
	Description() string
}

// InsertCommand inserts Text at byte offset Pos.
type InsertCommand struct {
	Pos      int
	Text     string
	executed bool
}

// NewInsertCommand creates a new insert command.
func NewInsertCommand(pos int, text string) *InsertCommand {
	return &InsertCommand{Pos: pos, Text: text}
}

// Execute inserts the text.
func (c *InsertCommand) Execute(buf *buffer.Buffer) error {
	if c.executed {
		return editerr.At("insert", editerr.AlreadyExecuted, c.Pos, len(c.Text))
	}
	if _, err := buf.Insert(c.Pos, c.Text); err != nil {
		return err
	}
	c.executed = true
	return nil
}

// Invert removes the inserted text.
func (c *InsertCommand) Invert(buf *buffer.Buffer) error {
	if !c.executed {
		return editerr.At("invert insert", editerr.NotExecuted, c.Pos, len(c.Text))
	}
	if _, _, err := buf.Splice(c.Pos, len(c.Text), ""); err != nil {
		return err
	}
	c.executed = false
	return nil
}

// Description returns a human-readable description.
func (c *InsertCommand) Description() string {
	if len(c.Text) == 1 {
		switch c.Text {
		case "\n":
			return "Insert newline"
		case "\t":
			return "Insert tab"
		}
		return fmt.Sprintf("Type '%s'", c.Text)
	}
	if utf8.RuneCountInString(c.Text) <= 20 {
		return fmt.Sprintf("Insert %q", c.Text)
	}
	return fmt.Sprintf("Insert %d characters", utf8.RuneCountInString(c.Text))
}

// DeleteCommand removes Length bytes at Pos.
type DeleteCommand struct {
	Pos      int
	Length   int
	removed  string
	executed bool
}

// NewDeleteCommand creates a new delete command.
func NewDeleteCommand(pos, length int) *DeleteCommand {
	return &DeleteCommand{Pos: pos, Length: length}
}

// Execute removes the range and records the removed bytes.
func (c *DeleteCommand) Execute(buf *buffer.Buffer) error {
	if c.executed {
		return editerr.At("delete", editerr.AlreadyExecuted, c.Pos, c.Length)
	}
	removed, _, err := buf.Delete(c.Pos, c.Length)
	if err != nil {
		return err
	}
	c.removed = removed
	c.executed = true
	return nil
}

// Invert puts the removed bytes back.
func (c *DeleteCommand) Invert(buf *buffer.Buffer) error {
	if !c.executed {
		return editerr.At("invert delete", editerr.NotExecuted, c.Pos, c.Length)
	}
	if _, _, err := buf.Splice(c.Pos, 0, c.removed); err != nil {
		return err
	}
	c.executed = false
	return nil
}

// Removed returns the bytes captured by the last Execute.
func (c *DeleteCommand) Removed() string {
	return c.removed
}

// Description returns a human-readable description.
func (c *DeleteCommand) Description() string {
	if c.Length == 1 {
		return "Delete"
	}
	return fmt.Sprintf("Delete %d bytes", c.Length)
}

// ReplaceCommand replaces Length bytes at Pos with Text.
type ReplaceCommand struct {
	Pos      int
	Length   int
	Text     string
	replaced string
	executed bool
}

// NewReplaceCommand creates a new replace command.
func NewReplaceCommand(pos, length int, text string) *ReplaceCommand {
	return &ReplaceCommand{Pos: pos, Length: length, Text: text}
}

// Execute replaces the range and records the replaced bytes.
func (c *ReplaceCommand) Execute(buf *buffer.Buffer) error {
	if c.executed {
		return editerr.At("replace", editerr.AlreadyExecuted, c.Pos, c.Length)
	}
	replaced, _, err := buf.Replace(c.Pos, c.Length, c.Text)
	if err != nil {
		return err
	}
	c.replaced = replaced
	c.executed = true
	return nil
}

// Invert restores the replaced bytes.
func (c *ReplaceCommand) Invert(buf *buffer.Buffer) error {
	if !c.executed {
		return editerr.At("invert replace", editerr.NotExecuted, c.Pos, c.Length)
	}
	if _, _, err := buf.Splice(c.Pos, len(c.Text), c.replaced); err != nil {
		return err
	}
	c.executed = false
	return nil
}

// Replaced returns the bytes captured by the last Execute.
func (c *ReplaceCommand) Replaced() string {
	return c.replaced
}

// Description returns a human-readable description.
func (c *ReplaceCommand) Description() string {
	newLen := utf8.RuneCountInString(c.Text)
	if c.Length == 0 {
		return fmt.Sprintf("Insert %d characters", newLen)
	}
	if newLen == 0 {
		return fmt.Sprintf("Delete %d bytes", c.Length)
	}
	return fmt.Sprintf("Replace %d bytes with %d characters", c.Length, newLen)
}

// CompoundCommand groups multiple commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
	executed bool
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{
		Name:     name,
		Commands: commands,
	}
}

// Execute runs all commands in order. If one fails, the commands that
// already ran are inverted so the buffer is left unchanged. A failed
// rollback stops there and is joined to the returned error.
func (c *CompoundCommand) Execute(buf *buffer.Buffer) error {
	if c.executed {
		return editerr.New("compound", editerr.AlreadyExecuted)
	}
	for i, cmd := range c.Commands {
		if err := cmd.Execute(buf); err != nil {
			err = fmt.Errorf("compound command '%s' step %d: %w", c.Name, i, err)
			return errors.Join(err, c.invertSteps(buf, i))
		}
	}
	c.executed = true
	return nil
}

// Invert reverses all commands in reverse order. If one fails, the
// commands already inverted are executed again. A failed re-execution
// stops there and is joined to the returned error.
func (c *CompoundCommand) Invert(buf *buffer.Buffer) error {
	if !c.executed {
		return editerr.New("invert compound", editerr.NotExecuted)
	}
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Invert(buf); err != nil {
			err = fmt.Errorf("invert compound command '%s' step %d: %w", c.Name, i, err)
			return errors.Join(err, c.executeSteps(buf, i+1))
		}
	}
	c.executed = false
	return nil
}

// invertSteps inverts Commands[:n], newest first.
func (c *CompoundCommand) invertSteps(buf *buffer.Buffer, n int) error {
	for j := n - 1; j >= 0; j-- {
		if err := c.Commands[j].Invert(buf); err != nil {
			return fmt.Errorf("rollback step %d of '%s': %w", j, c.Name, err)
		}
	}
	return nil
}

// executeSteps executes Commands[from:] in order.
func (c *CompoundCommand) executeSteps(buf *buffer.Buffer, from int) error {
	for j := from; j < len(c.Commands); j++ {
		if err := c.Commands[j].Execute(buf); err != nil {
			return fmt.Errorf("restore step %d of '%s': %w", j, c.Name, err)
		}
	}
	return nil
}

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// Add adds a command to the compound command.
func (c *CompoundCommand) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// IsEmpty returns true if the compound command has no commands.
func (c *CompoundCommand) IsEmpty() bool {
	return len(c.Commands) == 0
}
