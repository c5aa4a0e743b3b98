package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/sebastiantruijens/moviecards/internal/anim"
	"github.com/sebastiantruijens/moviecards/internal/movie"
)

// Card geometry in cells. The outer width includes the border.
const (
	cardOuterWidth = 32
	cardInnerWidth = cardOuterWidth - 4
	cardGap        = 2
	cardTextRows   = 4 // title, rating, year, actors

	placeholderRows = 3
)

// Below minOpacity a card is not drawn at all; poster art, which carries
// its own colours, only appears once the card is half visible.
const (
	minOpacity    = 0.05
	posterOpacity = 0.5
)

// posterRows is the height of the poster area of every card.
func (m Model) posterRows() int {
	if m.posters == nil {
		return placeholderRows
	}
	_, h := m.posters.Size()
	if h <= 0 {
		return placeholderRows
	}
	return h
}

// cardHeight is a card's height including its border.
func (m Model) cardHeight() int {
	return m.posterRows() + cardTextRows + 2
}

// cardSlotHeight is the vertical space a grid row takes, gap included.
func (m Model) cardSlotHeight() int {
	return m.cardHeight() + 1
}

// gridView renders the result set as rows of cards.
func (m Model) gridView() string {
	movies := m.ctrl.State().Movies
	if len(movies) == 0 {
		return ""
	}
	cols := columnsFor(m.width)
	ent := m.scope.Entrance()
	now := m.now()
	gap := strings.Repeat(" ", cardGap)

	rows := make([]string, 0, (len(movies)+cols-1)/cols)
	for start := 0; start < len(movies); start += cols {
		end := min(start+cols, len(movies))
		cells := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				cells = append(cells, gap)
			}
			cells = append(cells, m.cardView(i, movies[i], ent, now))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n\n")
}

// cardView draws card i at its entrance position and opacity. The card
// always occupies the same slot; while entering it is drawn shifted up,
// clipped at the top and padded at the bottom.
func (m Model) cardView(i int, rec movie.Record, ent anim.Entrance, now time.Time) string {
	height := m.cardHeight()
	blank := strings.Repeat(" ", cardOuterWidth)

	opacity := ent.Opacity(i, now)
	if opacity < minOpacity {
		return strings.TrimSuffix(strings.Repeat(blank+"\n", height), "\n")
	}

	fg := fade(secondaryColor, opacity)
	border := fade(accentColor, opacity)
	if m.focus == focusGrid && i == m.selected && m.detail == nil {
		border = fade(primaryColor, opacity)
	}

	text := lipgloss.NewStyle().Foreground(fg)
	title := text.Bold(true).Render(truncate(rec.Title, cardInnerWidth))
	lines := []string{
		m.posterView(rec, opacity),
		title,
		text.Render(truncate("Rating: "+rec.Rank, cardInnerWidth)),
		text.Render(truncate("Year: "+rec.Year, cardInnerWidth)),
		text.Render(truncate("Actors: "+rec.Actors, cardInnerWidth)),
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(cardOuterWidth - 2).
		Height(height - 2).
		Render(strings.Join(lines, "\n"))

	off := ent.Offset(i, now)
	if off <= 0 {
		return card
	}
	split := strings.Split(card, "\n")
	off = min(off, len(split))
	shifted := split[off:]
	for j := 0; j < off; j++ {
		shifted = append(shifted, blank)
	}
	return strings.Join(shifted, "\n")
}

// posterView returns the poster area: the rendered art when available,
// otherwise a centred placeholder.
func (m Model) posterView(rec movie.Record, opacity float64) string {
	rows := m.posterRows()
	box := lipgloss.NewStyle().
		Width(cardInnerWidth).
		Height(rows).
		Align(lipgloss.Center)

	if art := m.posterArt[rec.PosterURL]; art != "" && opacity >= posterOpacity {
		return box.Render(clipBlock(art, cardInnerWidth, rows))
	}

	label := "No poster"
	if rec.PosterURL != "" && m.posters != nil {
		if _, done := m.posterArt[rec.PosterURL]; !done {
			label = "Loading poster..."
		}
	}
	return box.
		Foreground(fade(accentColor, opacity)).
		AlignVertical(lipgloss.Center).
		Render(label)
}

// fade blends c over the background at the given opacity.
func fade(c lipgloss.Color, opacity float64) lipgloss.Color {
	if opacity >= 1 {
		return c
	}
	from, err := colorful.Hex(string(bgColor))
	if err != nil {
		return c
	}
	to, err := colorful.Hex(string(c))
	if err != nil {
		return c
	}
	return lipgloss.Color(from.BlendRgb(to, max(opacity, 0)).Hex())
}
