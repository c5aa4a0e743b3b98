package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sebastiantruijens/moviecards/internal/anim"
)

// buttonTrack is the scale track of the search button.
const buttonTrack = "button"

// Button scale targets.
const (
	scaleRest  = 1.0
	scaleHover = 1.2
	scalePress = 0.7
)

// frameTick schedules the next animation frame for epoch.
func frameTick(epoch uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return frameMsg{epoch: epoch}
	})
}

// ensureFrames starts the frame loop if something is animating and the
// loop is not already running.
func (m *Model) ensureFrames() tea.Cmd {
	if m.frameRunning || !m.scope.Active(m.now()) {
		return nil
	}
	m.frameRunning = true
	return frameTick(m.scope.Epoch(), m.scope.Config().FrameInterval)
}

func (m *Model) handleFrame(msg frameMsg) tea.Cmd {
	if m.scope.Closed() || msg.epoch != m.scope.Epoch() {
		return nil
	}
	if !m.scope.Active(m.now()) {
		m.frameRunning = false
		return nil
	}
	return frameTick(msg.epoch, m.scope.Config().FrameInterval)
}

// hoverEnter grows the button when it gains focus.
func (m *Model) hoverEnter() tea.Cmd {
	m.scope.PlayGuarded(buttonTrack, scaleRest, m.now(), anim.Step{To: scaleHover})
	return m.ensureFrames()
}

// hoverLeave shrinks the button back when it loses focus.
func (m *Model) hoverLeave() tea.Cmd {
	m.scope.PlayGuarded(buttonTrack, scaleRest, m.now(), anim.Step{To: scaleRest})
	return m.ensureFrames()
}

// press plays the two-phase click: a quick shrink, then a settle back.
func (m *Model) press() tea.Cmd {
	m.scope.PlayGuarded(buttonTrack, scaleRest, m.now(),
		anim.Step{To: scalePress, Duration: 100 * time.Millisecond},
		anim.Step{To: scaleRest, Duration: 200 * time.Millisecond},
	)
	return m.ensureFrames()
}

// buttonScale is the button's current scale.
func (m Model) buttonScale() float64 {
	return m.scope.Value(buttonTrack, m.now(), scaleRest)
}
