package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"newsticker/domain"
)

type fakeTicker struct {
	hover   []bool
	stopped bool
}

func (f *fakeTicker) SetHover(h bool) { f.hover = append(f.hover, h) }
func (f *fakeTicker) Stop()           { f.stopped = true }

func (f *fakeTicker) lastHover() bool {
	if len(f.hover) == 0 {
		return false
	}
	return f.hover[len(f.hover)-1]
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func motion(y int) tea.MouseMsg {
	return tea.MouseMsg{X: 4, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}
}

func TestRegion_KeepsNewestFrame(t *testing.T) {
	r := NewRegion()
	r.Render(domain.Frame{Title: "old"})
	r.Render(domain.Frame{Title: "new"})

	got := <-r.frames
	if got.Title != "new" {
		t.Errorf("frame = %q, want new", got.Title)
	}
	select {
	case f := <-r.frames:
		t.Errorf("stale frame left behind: %q", f.Title)
	default:
	}
}

func TestModel_FrameFlow(t *testing.T) {
	r := NewRegion()
	m := NewModel(r, &fakeTicker{}, "https://example.edu/rss")

	r.Render(domain.Frame{Item: domain.FeedItem{Title: "BB", Link: "/b"}, Title: "B"})
	msg := m.Init()()
	m, cmd := update(t, m, msg)
	if cmd == nil {
		t.Fatal("model stopped listening for frames")
	}
	view := m.View()
	if !strings.Contains(view, "Latest:") || !strings.Contains(view, "B") {
		t.Errorf("view = %q", view)
	}
}

func TestModel_ListenerReturnsAfterClose(t *testing.T) {
	r := NewRegion()
	m := NewModel(r, &fakeTicker{}, "u")
	listen := m.Init()

	got := make(chan tea.Msg, 1)
	go func() { got <- listen() }()
	r.Close()

	select {
	case msg := <-got:
		if msg != nil {
			t.Errorf("msg after Close = %#v, want nil", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("frame listener still blocked after Close")
	}

	r.Render(domain.Frame{Title: "late"})
	r.Close()
}

func TestModel_ErrorAndLoadingViews(t *testing.T) {
	m := NewModel(NewRegion(), &fakeTicker{}, "https://example.edu/rss")
	if !strings.Contains(m.View(), "loading") {
		t.Errorf("initial view = %q", m.View())
	}

	m, _ = update(t, m, frameMsg{Err: "fetching remote RSS feed!", Body: "<rss>\n</rss>"})
	view := m.View()
	if !strings.Contains(view, "Error") || !strings.Contains(view, "fetching remote RSS feed!") || !strings.Contains(view, "<rss>") {
		t.Errorf("error view = %q", view)
	}
}

func TestModel_HoverPauses(t *testing.T) {
	ft := &fakeTicker{}
	m := NewModel(NewRegion(), ft, "u")
	m, _ = update(t, m, frameMsg{Item: domain.FeedItem{Title: "A", Link: "/a", Description: "d"}, Title: "A", ShowDescription: true})

	m, _ = update(t, m, motion(headlineRow))
	if !ft.lastHover() || !m.Paused() {
		t.Fatal("hover over headline did not pause")
	}
	m, _ = update(t, m, motion(descriptionRow))
	if len(ft.hover) != 1 {
		t.Errorf("moving within the ticker re-sent hover: %v", ft.hover)
	}
	m, _ = update(t, m, motion(5))
	if ft.lastHover() || m.Paused() {
		t.Error("leaving the ticker did not resume")
	}

	press := tea.MouseMsg{Y: headlineRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m, _ = update(t, m, press)
	if ft.lastHover() {
		t.Error("click treated as hover")
	}
}

func TestModel_Keys(t *testing.T) {
	ft := &fakeTicker{}
	m := NewModel(NewRegion(), ft, "u")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if !ft.lastHover() || !strings.Contains(m.View(), "paused") {
		t.Error("p did not pin the pause")
	}
	// Hover ending must not release a pinned pause.
	m, _ = update(t, m, motion(headlineRow))
	m, _ = update(t, m, motion(9))
	if !ft.lastHover() {
		t.Error("pinned pause released by mouse")
	}

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !ft.stopped {
		t.Error("quit did not stop the ticker")
	}
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command is not tea.Quit")
	}
	select {
	case <-m.region.done:
	default:
		t.Error("quit did not close the region")
	}
}

func TestModel_TruncatesToWidth(t *testing.T) {
	m := NewModel(NewRegion(), &fakeTicker{}, "u")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	long := strings.Repeat("headline ", 10)
	m, _ = update(t, m, frameMsg{Item: domain.FeedItem{Title: long, Link: "/l"}, Title: long})

	if !strings.Contains(m.View(), "…") {
		t.Errorf("long title not truncated: %q", m.View())
	}
}
