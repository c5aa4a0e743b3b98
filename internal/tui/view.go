package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#E50914")
	secondaryColor = lipgloss.Color("#F5F5F1")
	accentColor    = lipgloss.Color("#564D4D")
	bgColor        = lipgloss.Color("#171717")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	normalTextStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	mutedTextStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	focusedInputStyle = inputStyle.
				BorderForeground(primaryColor)

	buttonStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Background(accentColor).
			Align(lipgloss.Center)

	focusedButtonStyle = buttonStyle.
				Background(primaryColor).
				Bold(true)
)

const (
	heading     = "Movies Collection"
	buttonLabel = "Search"

	// buttonWidth is the button's width at scale 1.
	buttonWidth = 12
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	body := m.grid.View()
	if m.detail != nil {
		body = m.detailView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		m.footerView(),
	)
}

func (m Model) headerView() string {
	input := inputStyle
	if m.focus == focusInput {
		input = focusedInputStyle
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center,
		input.Render(m.input.View()),
		" ",
		m.buttonView(),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(heading),
		row,
		m.statusView(),
	)
}

// buttonView draws the search button at its current scale; width stands
// in for size.
func (m Model) buttonView() string {
	w := int(math.Round(buttonWidth * m.buttonScale()))
	w = max(w, len(buttonLabel)+2)
	style := buttonStyle
	if m.focus == focusButton {
		style = focusedButtonStyle
	}
	return style.Width(w).Render(buttonLabel)
}

// statusView is the single status line: loading, the error message, a
// transient notice, or nothing.
func (m Model) statusView() string {
	st := m.ctrl.State()
	switch {
	case st.Loading:
		return m.spinner.View() + " " + normalTextStyle.Render("Loading...")
	case st.ErrorMessage != "":
		return errorStyle.Render(st.ErrorMessage)
	case m.notice != "":
		return mutedTextStyle.Render(m.notice)
	}
	return ""
}

func (m Model) footerView() string {
	return m.help.ShortHelpView(m.shortHelp())
}

// detailContent renders the overlay for the selected movie.
func (m Model) detailContent() string {
	d := m.detail
	if d == nil {
		return ""
	}
	width := max(m.detailView.Width-4, 20)

	title := d.record.Title
	if d.info != nil && d.info.Title != "" {
		title = d.info.Title
	}
	if d.record.Year != "" {
		title += " (" + d.record.Year + ")"
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	switch {
	case d.loading:
		sb.WriteString(m.spinner.View() + " " + normalTextStyle.Render("Loading details..."))
		return sb.String()
	case d.err != nil:
		sb.WriteString(errorStyle.Render("Could not load details."))
		sb.WriteString("\n")
		sb.WriteString(mutedTextStyle.Render(wrapText(d.err.Error(), width)))
		return sb.String()
	}

	info := d.info
	if info == nil {
		sb.WriteString(normalTextStyle.Render("No details available."))
		return sb.String()
	}
	field := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(subtitleStyle.Render(label+": ") + normalTextStyle.Render(value))
		sb.WriteString("\n")
	}
	field("Rating", info.Rating)
	field("Released", info.Released)
	field("Genres", strings.Join(info.Genres, ", "))
	field("Actors", d.record.Actors)

	if info.Summary != "" {
		sb.WriteString("\n")
		sb.WriteString(subtitleStyle.Render("Summary:"))
		sb.WriteString("\n")
		sb.WriteString(normalTextStyle.Render(wrapText(info.Summary, width)))
		sb.WriteString("\n")
	}

	url := info.URL
	if url == "" {
		url = d.record.PageURL
	}
	sb.WriteString("\n")
	sb.WriteString(subtitleStyle.Render("More Info:"))
	sb.WriteString("\n")
	sb.WriteString(normalTextStyle.Render(url))
	return sb.String()
}
