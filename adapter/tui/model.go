package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"newsticker/domain"
)

// Ticker is what the model needs from the running ticker.
type Ticker interface {
	SetHover(hovering bool)
	Stop()
}

type frameMsg domain.Frame

// The ticker occupies these rows; row 0 is the header.
const (
	headlineRow    = 1
	descriptionRow = 2
	defaultWidth   = 80
)

type styles struct {
	header   lipgloss.Style
	label    lipgloss.Style
	headline lipgloss.Style
	desc     lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header:   lipgloss.NewStyle().Faint(true),
		label:    lipgloss.NewStyle().Bold(true),
		headline: lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39")),
		desc:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		err:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		help:     lipgloss.NewStyle().Faint(true),
	}
}

type Model struct {
	region  *Region
	ticker  Ticker
	feedURL string
	styles  styles

	frame    domain.Frame
	width    int
	hovering bool
	pinned   bool
}

func NewModel(region *Region, ticker Ticker, feedURL string) Model {
	return Model{
		region:  region,
		ticker:  ticker,
		feedURL: feedURL,
		styles:  defaultStyles(),
		width:   defaultWidth,
	}
}

func (m Model) Init() tea.Cmd {
	return listenForFrame(m.region)
}

// listenForFrame waits for the next frame. It returns nil once the region
// is closed.
func listenForFrame(r *Region) tea.Cmd {
	return func() tea.Msg {
		select {
		case f := <-r.frames:
			return frameMsg(f)
		case <-r.done:
			return nil
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = domain.Frame(msg)
		return m, listenForFrame(m.region)

	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionMotion {
			return m, nil
		}
		over := msg.Y >= headlineRow && msg.Y <= m.lastTickerRow()
		if over != m.hovering {
			m.hovering = over
			m.applyPause()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.ticker.Stop()
			m.region.Close()
			return m, tea.Quit
		case "p", " ":
			m.pinned = !m.pinned
			m.applyPause()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) lastTickerRow() int {
	if m.frame.ShowDescription && m.frame.Item.Description != "" {
		return descriptionRow
	}
	return headlineRow
}

func (m *Model) applyPause() {
	m.ticker.SetHover(m.hovering || m.pinned)
}

func (m Model) Paused() bool { return m.hovering || m.pinned }

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.header.Render(m.fit("newsticker · " + m.feedURL)))
	b.WriteString("\n")

	switch {
	case m.frame.IsError():
		b.WriteString(m.styles.err.Render("Error") + " " + m.fit(m.frame.Err))
		if body := strings.TrimSpace(m.frame.Body); body != "" {
			b.WriteString("\n" + m.styles.desc.Render(m.fit(firstLine(body))))
		}
	case m.frame.IsEmpty():
		b.WriteString(m.styles.desc.Render("loading…"))
	default:
		label := "Latest: "
		title := runewidth.Truncate(m.frame.Title, m.width-runewidth.StringWidth(label), "…")
		b.WriteString(m.styles.label.Render(label) + m.styles.headline.Render(title))
		if m.frame.ShowDescription && m.frame.Item.Description != "" {
			b.WriteString("\n" + m.styles.desc.Render(m.fit(m.frame.Item.Description)))
		}
	}

	b.WriteString("\n\n")
	status := "hover or press p to pause · q to quit"
	if m.Paused() {
		status = "paused · " + status
	}
	b.WriteString(m.styles.help.Render(m.fit(status)))
	return b.String()
}

func (m Model) fit(s string) string {
	return runewidth.Truncate(s, m.width, "…")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
