package testutil

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds command draining so a self-scheduling Cmd cannot
// loop forever.
const MaxDrainDepth = 100

// TeaDriver drives a tea.Model synchronously in tests. It calls Update
// directly and runs every returned Cmd inline, so no tea.Program or
// goroutines are involved.
type TeaDriver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg is produced. The bubbletea runtime
	// normally swallows that message, so the driver records it itself.
	Quitting bool
}

// NewTeaDriver wraps model and runs its Init command.
func NewTeaDriver(t *testing.T, model tea.Model) *TeaDriver {
	t.Helper()
	d := &TeaDriver{T: t, Model: model}
	d.drain(model.Init(), 0)
	return d
}

// Send dispatches msg through Update and drains all resulting Cmds.
// Messages sent after quitting are ignored.
func (d *TeaDriver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, 0)
}

// PressKey sends a single rune key.
func (d *TeaDriver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *TeaDriver) PressUp() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyUp})
}

func (d *TeaDriver) PressDown() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyDown})
}

func (d *TeaDriver) PressShiftUp() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyShiftUp})
}

func (d *TeaDriver) PressShiftDown() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyShiftDown})
}

func (d *TeaDriver) PressCtrlC() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
}

// View returns the model's current rendering.
func (d *TeaDriver) View() string {
	return d.Model.View()
}

func (d *TeaDriver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("TeaDriver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := cmd()
	switch m := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range m {
			d.drain(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
		d.Model, _ = d.Model.Update(m)
	default:
		updated, next := d.Model.Update(m)
		d.Model = updated
		d.drain(next, depth+1)
	}
}
