package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Quit     key.Binding
	Back     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Submit   key.Binding
	Press    key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Open     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Press:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "search")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
	}
}

// shortHelp lists the bindings relevant to the current focus.
func (m Model) shortHelp() []key.Binding {
	k := m.keys
	if m.detail != nil {
		return []key.Binding{k.Up, k.Down, k.Open, k.Back, k.Quit}
	}
	switch m.focus {
	case focusButton:
		return []key.Binding{k.Submit, k.Next, k.Prev, k.Quit}
	case focusGrid:
		details := k.Submit
		details.SetHelp("enter", "details")
		return []key.Binding{k.Up, k.Down, k.Left, k.Right, details, k.Open, k.Back, k.Quit}
	default:
		return []key.Binding{k.Submit, k.Next, k.PageDown, k.Back, k.Quit}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.teardown()
		return tea.Quit
	}
	m.notice = ""

	if m.detail != nil {
		return m.handleDetailKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		return m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.Prev):
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, m.keys.PageUp):
		m.grid.SetYOffset(m.grid.YOffset - m.grid.Height)
		return nil
	case key.Matches(msg, m.keys.PageDown):
		m.grid.SetYOffset(m.grid.YOffset + m.grid.Height)
		return nil
	case key.Matches(msg, m.keys.Back):
		if m.focus == focusInput {
			m.teardown()
			return tea.Quit
		}
		return m.setFocus(focusInput)
	}

	switch m.focus {
	case focusButton:
		if key.Matches(msg, m.keys.Submit, m.keys.Press) {
			return m.activate()
		}
		return nil
	case focusGrid:
		return m.handleGridKey(msg)
	}

	if key.Matches(msg, m.keys.Submit) {
		return m.activate()
	}
	// Typing only edits the draft
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// activate is the search button's click: press animation plus a search
// for the current draft.
func (m *Model) activate() tea.Cmd {
	return tea.Batch(m.press(), m.startSearch(m.input.Value()))
}

// setFocus moves focus, playing the button's hover transitions as focus
// enters or leaves it.
func (m *Model) setFocus(next focusArea) tea.Cmd {
	prev := m.focus
	if prev == next {
		return nil
	}
	m.focus = next

	var cmds []tea.Cmd
	if prev == focusButton {
		cmds = append(cmds, m.hoverLeave())
	}
	if next == focusButton {
		cmds = append(cmds, m.hoverEnter())
	}
	if next == focusInput {
		cmds = append(cmds, m.input.Focus())
	} else {
		m.input.Blur()
	}
	if next == focusGrid {
		m.keepSelectionVisible()
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleGridKey(msg tea.KeyMsg) tea.Cmd {
	n := len(m.ctrl.State().Movies)
	if n == 0 {
		return nil
	}
	cols := columnsFor(m.width)

	switch {
	case key.Matches(msg, m.keys.Left):
		m.selected--
	case key.Matches(msg, m.keys.Right):
		m.selected++
	case key.Matches(msg, m.keys.Up):
		if m.selected-cols >= 0 {
			m.selected -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected+cols < n {
			m.selected += cols
		}
	case key.Matches(msg, m.keys.Submit):
		return m.loadDetails()
	case key.Matches(msg, m.keys.Open):
		return m.openSelected()
	default:
		return nil
	}
	m.selected = min(max(m.selected, 0), n-1)
	m.keepSelectionVisible()
	return nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.detail = nil
		m.detailRequestID++ // drop any pending load
	case key.Matches(msg, m.keys.Open):
		return m.openSelected()
	case key.Matches(msg, m.keys.Up):
		m.detailView.SetYOffset(m.detailView.YOffset - 1)
	case key.Matches(msg, m.keys.Down):
		m.detailView.SetYOffset(m.detailView.YOffset + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.detailView.SetYOffset(m.detailView.YOffset - m.detailView.Height)
	case key.Matches(msg, m.keys.PageDown):
		m.detailView.SetYOffset(m.detailView.YOffset + m.detailView.Height)
	}
	return nil
}
