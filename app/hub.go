package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"newsticker/domain"
)

// Previewer is implemented by regions that can hand back their current
// content as HTML.
type Previewer interface {
	HTML() string
}

type hubEntry struct {
	ticker *Ticker
	region domain.Region
}

// Hub runs a set of independent, named tickers.
type Hub struct {
	mu      sync.Mutex
	entries map[string]hubEntry
	started bool
	cancel  context.CancelFunc
}

func NewHub() *Hub {
	return &Hub{entries: make(map[string]hubEntry)}
}

// Add registers a ticker under name. Tickers added after Start are
// started immediately.
func (h *Hub) Add(ctx context.Context, name string, t *Ticker, region domain.Region) error {
	if name == "" {
		return errors.New("ticker name must not be empty")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.entries[name]; exists {
		return fmt.Errorf("ticker %q already registered", name)
	}
	h.entries[name] = hubEntry{ticker: t, region: region}
	if h.started {
		return t.Start(ctx)
	}
	return nil
}

// Start starts every ticker in name order. If one fails, the ones already
// started are stopped again and the hub stays unstarted.
func (h *Hub) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started {
		return errors.New("hub already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	started := make([]*Ticker, 0, len(h.entries))
	for _, name := range h.namesLocked() {
		t := h.entries[name].ticker
		if err := t.Start(ctx); err != nil {
			for _, s := range started {
				s.Stop()
			}
			cancel()
			return fmt.Errorf("start ticker %q: %w", name, err)
		}
		started = append(started, t)
	}
	h.cancel = cancel
	h.started = true
	return nil
}

func (h *Hub) Stop() error {
	h.mu.Lock()
	if !h.started {
		h.mu.Unlock()
		return nil
	}
	cancel := h.cancel
	tickers := make([]*Ticker, 0, len(h.entries))
	for _, e := range h.entries {
		tickers = append(tickers, e.ticker)
	}
	h.started = false
	h.mu.Unlock()

	for _, t := range tickers {
		t.Stop()
	}
	cancel()
	return nil
}

func (h *Hub) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.namesLocked()
}

func (h *Hub) namesLocked() []string {
	names := make([]string, 0, len(h.entries))
	for name := range h.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetHover pauses or resumes the named ticker; an empty name applies to
// every ticker.
func (h *Hub) SetHover(name string, hovering bool) error {
	targets, err := h.lookup(name)
	if err != nil {
		return err
	}
	for _, e := range targets {
		e.ticker.SetHover(hovering)
	}
	return nil
}

func (h *Hub) StopTicker(name string) error {
	targets, err := h.lookup(name)
	if err != nil {
		return err
	}
	for _, e := range targets {
		e.ticker.Stop()
	}
	return nil
}

func (h *Hub) Statuses() []domain.TickerStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.TickerStatus, 0, len(h.entries))
	for name, e := range h.entries {
		st := e.ticker.Status()
		st.Name = name
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Preview returns the HTML currently shown by the named ticker.
func (h *Hub) Preview(name string) (string, error) {
	h.mu.Lock()
	e, ok := h.entries[name]
	h.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrTickerNotFound, name)
	}
	p, ok := e.region.(Previewer)
	if !ok {
		return "", fmt.Errorf("ticker %q has no HTML preview", name)
	}
	return p.HTML(), nil
}

func (h *Hub) lookup(name string) ([]hubEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if name == "" {
		out := make([]hubEntry, 0, len(h.entries))
		for _, e := range h.entries {
			out = append(out, e)
		}
		return out, nil
	}
	e, ok := h.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTickerNotFound, name)
	}
	return []hubEntry{e}, nil
}
