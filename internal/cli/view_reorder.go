package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/tasktree/internal/cli/formatter"
	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/priority"
	"github.com/alexanderramin/tasktree/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// prioritySavedMsg carries the outcome of an asynchronous save.
type prioritySavedMsg struct {
	resp *priority.Response
	err  error
}

type reorderKeys struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Save     key.Binding
	Discard  key.Binding
	Quit     key.Binding
}

func newReorderKeys() reorderKeys {
	return reorderKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveUp:   key.NewBinding(key.WithKeys("shift+up", "alt+up", "K"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("shift+down", "alt+down", "J"), key.WithHelp("J", "move down")),
		Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Discard:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "discard")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k reorderKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.MoveUp, k.MoveDown, k.Save, k.Discard, k.Quit}
}

// reorderView lets the user rearrange one sibling list. Every move is fed to
// the session's detector, which decides whether there is anything to save.
type reorderView struct {
	ctx     context.Context
	session *service.ReorderSession
	items   []domain.Task
	cursor  int
	keys    reorderKeys
	help    help.Model

	saving  bool
	saved   int
	message string
	err     error
}

func newReorderView(ctx context.Context, session *service.ReorderSession) *reorderView {
	items := make([]domain.Task, len(session.Siblings))
	copy(items, session.Siblings)
	return &reorderView{
		ctx:     ctx,
		session: session,
		items:   items,
		keys:    newReorderKeys(),
		help:    help.New(),
	}
}

func (v *reorderView) Init() tea.Cmd { return nil }

func (v *reorderView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case prioritySavedMsg:
		v.saving = false
		if msg.err != nil {
			v.err = msg.err
			v.message = "Save failed: " + msg.err.Error()
			if v.session.State() == priority.Clean {
				v.resetToBaseline()
			}
			return v, nil
		}
		v.err = nil
		v.saved++
		v.message = saveMessage(msg.resp, v.session.ParentID())
		return v, nil

	case tea.KeyMsg:
		if v.saving {
			// Only quitting is allowed until the save reports back.
			if key.Matches(msg, v.keys.Quit) {
				return v, tea.Quit
			}
			return v, nil
		}
		return v.updateKeys(msg)
	}
	return v, nil
}

func (v *reorderView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.MoveUp):
		v.move(-1)
	case key.Matches(msg, v.keys.MoveDown):
		v.move(1)
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.items)-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.Save):
		if !v.session.ListHasRearranged() {
			v.message = "Nothing to save."
			return v, nil
		}
		v.saving = true
		v.message = "Saving..."
		return v, v.save()
	case key.Matches(msg, v.keys.Discard):
		v.session.DiscardTaskPriority()
		v.resetToBaseline()
		v.message = "Changes discarded."
	}
	return v, nil
}

func (v *reorderView) move(delta int) {
	target := v.cursor + delta
	if target < 0 || target >= len(v.items) {
		return
	}
	v.items[v.cursor], v.items[target] = v.items[target], v.items[v.cursor]
	v.cursor = target
	v.session.HandleItemsPriorityUpdate(v.items)
	v.message = ""
}

func (v *reorderView) save() tea.Cmd {
	session, ctx := v.session, v.ctx
	return func() tea.Msg {
		resp, err := session.SaveTaskPriority(ctx)
		return prioritySavedMsg{resp: resp, err: err}
	}
}

func (v *reorderView) resetToBaseline() {
	v.items = orderTasks(v.session.Siblings, v.session.Baseline())
	v.cursor = min(v.cursor, max(len(v.items)-1, 0))
}

// Order returns the ids as currently displayed.
func (v *reorderView) Order() []int {
	return domain.TaskIDs(v.items)
}

// Summary describes how the session ended, for printing after the program exits.
func (v *reorderView) Summary() string {
	switch {
	case v.session.ListHasRearranged():
		return "Unsaved changes discarded."
	case v.err != nil:
		return v.message
	case v.saved > 0:
		return v.message
	default:
		return "Order unchanged."
	}
}

func (v *reorderView) View() string {
	var b strings.Builder

	b.WriteString(formatter.Header("Reorder children of "+formatter.ParentRef(v.session.ParentID())) + "\n\n")
	for i, t := range v.items {
		cursor := "  "
		line := fmt.Sprintf("%s %s %s", formatter.StatusColor(t.Status).Render(formatter.StatusGlyph(t.Status)), formatter.TaskRef(t.ID), t.Title)
		if i == v.cursor {
			cursor = formatter.StyleHeader.Render("› ")
			line = formatter.Bold(line)
		}
		b.WriteString(cursor + line + "\n")
	}

	b.WriteString("\n")
	if v.session.ListHasRearranged() {
		b.WriteString(formatter.StyleYellow.Render("● modified") + "\n")
	}
	if v.message != "" {
		style := formatter.StyleDim
		if v.err != nil {
			style = formatter.StyleRed
		}
		b.WriteString(style.Render(v.message) + "\n")
	}
	b.WriteString(v.help.ShortHelpView(v.keys.ShortHelp()))
	return b.String()
}
