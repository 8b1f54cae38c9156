package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"newsticker/domain"
	"newsticker/internal/clock"
	"newsticker/internal/logger"
)

// Rotation delays. The feed's cachetime/delay knobs were never honoured,
// so these are fixed.
const (
	PollInterval   = 100 * time.Millisecond
	RevealInterval = 50 * time.Millisecond
	HoldInterval   = 3000 * time.Millisecond
)

const emptyFeedMessage = "fetching remote RSS feed!"

// TransportErrorPolicy decides what a ticker shows when the feed request
// itself fails.
type TransportErrorPolicy string

const (
	// RetainLast logs the failure and leaves the region as it was.
	RetainLast TransportErrorPolicy = "retain"
	// ShowError renders the failure into the region.
	ShowError TransportErrorPolicy = "error"
)

func ParseTransportErrorPolicy(s string) (TransportErrorPolicy, error) {
	switch p := TransportErrorPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return RetainLast, nil
	case RetainLast, ShowError:
		return p, nil
	}
	return "", fmt.Errorf("unknown transport error policy %q (want retain or error)", s)
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateRevealingTitle
	StateShowingFull
	StatePaused
	StateError
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRevealingTitle:
		return "revealing"
	case StateShowingFull:
		return "showing"
	case StatePaused:
		return "paused"
	case StateError:
		return "error"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrInvalidFeedURL = errors.New("feed URL must be an absolute http or https URL")
	ErrNoFetcher      = errors.New("ticker needs a feed fetcher")
	ErrNoRegion       = errors.New("ticker needs a render region")
	ErrAlreadyStarted = errors.New("ticker already started")
	ErrTickerStopped  = errors.New("ticker stopped")
)

type Options struct {
	FeedURL          string
	Animate          bool
	ShowDescription  bool
	OnTransportError TransportErrorPolicy

	Fetcher domain.FeedFetcher
	Region  domain.Region
	// Sink is optional; when set it receives the headlines of a
	// successful fetch.
	Sink   domain.HeadlineSink
	Clock  clock.Clock
	Logger *logger.Logger
}

// Ticker fetches one feed and cycles its headlines through a region.
// All state changes happen under mu, either in the fetch goroutine or in
// a timer callback; at most one timer is pending at a time.
type Ticker struct {
	id              string
	feedURL         string
	animate         bool
	showDescription bool
	policy          TransportErrorPolicy

	fetcher domain.FeedFetcher
	region  domain.Region
	sink    domain.HeadlineSink
	clock   clock.Clock
	log     *logger.Logger
	loaded  chan struct{}

	mu           sync.Mutex
	state        State
	items        []domain.FeedItem
	cursor       int
	revealLength int
	paused       bool
	nextDelay    time.Duration
	timer        *clock.Timer
	cancel       context.CancelFunc
}

func NewTicker(opts Options) (*Ticker, error) {
	u, err := url.Parse(strings.TrimSpace(opts.FeedURL))
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFeedURL, opts.FeedURL)
	}
	if opts.Fetcher == nil {
		return nil, ErrNoFetcher
	}
	if opts.Region == nil {
		return nil, ErrNoRegion
	}
	policy, err := ParseTransportErrorPolicy(string(opts.OnTransportError))
	if err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	id := uuid.NewString()
	return &Ticker{
		id:              id,
		feedURL:         u.String(),
		animate:         opts.Animate,
		showDescription: opts.ShowDescription,
		policy:          policy,
		fetcher:         opts.Fetcher,
		region:          opts.Region,
		sink:            opts.Sink,
		clock:           opts.Clock,
		log:             opts.Logger.With("ticker_id", id, "feed_url", u.String()),
		loaded:          make(chan struct{}),
	}, nil
}

func (t *Ticker) ID() string { return t.id }

func (t *Ticker) FeedURL() string { return t.feedURL }

// Loaded is closed once the initial fetch has been handled, whatever its
// outcome.
func (t *Ticker) Loaded() <-chan struct{} { return t.loaded }

// Start clears the region and issues the one and only fetch. It returns
// immediately; rotation begins when the fetch completes.
func (t *Ticker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case StateIdle:
	case StateStopped:
		return ErrTickerStopped
	default:
		return ErrAlreadyStarted
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.state = StateLoading
	t.region.Render(domain.Frame{})

	go func() {
		defer close(t.loaded)
		t.load(fetchCtx)
	}()
	return nil
}

// Stop cancels a pending fetch or timer and leaves the ticker inert.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateStopped {
		return
	}
	if t.state == StateIdle {
		close(t.loaded)
	}
	t.state = StateStopped
	t.timer.Stop()
	t.timer = nil
	if t.cancel != nil {
		t.cancel()
	}
	t.log.Debug("ticker stopped")
}

// SetHover records whether the pointer is over the region. The next tick
// observes it.
func (t *Ticker) SetHover(hovering bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = hovering
}

func (t *Ticker) Status() domain.TickerStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	state := t.state
	if t.paused && (state == StateRevealingTitle || state == StateShowingFull) {
		state = StatePaused
	}
	return domain.TickerStatus{
		ID:           t.id,
		FeedURL:      t.feedURL,
		State:        state.String(),
		Items:        len(t.items),
		Cursor:       t.cursor,
		RevealLength: t.revealLength,
		Paused:       t.paused,
		NextDelay:    t.nextDelay,
	}
}

func (t *Ticker) load(ctx context.Context) {
	res, err := t.fetcher.Fetch(ctx, t.feedURL)

	t.mu.Lock()
	if t.state == StateStopped {
		t.mu.Unlock()
		return
	}
	if err != nil {
		t.failTransportLocked(err)
		t.mu.Unlock()
		return
	}
	if res.DecodeErr != nil {
		t.log.Warn("feed body is not a feed document", "err", res.DecodeErr)
	}
	for _, skipped := range res.Skipped {
		t.log.Warn("skipping malformed feed entry", "err", skipped)
	}
	if len(res.Items) == 0 {
		t.state = StateError
		t.region.Render(domain.Frame{Err: emptyFeedMessage, Body: string(res.Body)})
		t.log.Error("feed has no entries", "err", &domain.EmptyFeedError{URL: t.feedURL, Skipped: len(res.Skipped)})
		t.mu.Unlock()
		return
	}

	t.items = res.Items
	if t.animate {
		t.state = StateRevealingTitle
	} else {
		t.state = StateShowingFull
	}
	t.log.Info("feed loaded", "items", len(res.Items), "skipped", len(res.Skipped))
	t.tickLocked()
	items := t.items
	t.mu.Unlock()

	if t.sink != nil {
		if err := t.sink.Record(ctx, items); err != nil {
			t.log.Warn("recording headlines failed", "err", err)
		}
	}
}

func (t *Ticker) failTransportLocked(err error) {
	t.state = StateError
	if errors.Is(err, context.Canceled) {
		return
	}
	if t.policy == RetainLast {
		t.log.Warn("feed request failed, keeping current content", "err", err)
		return
	}
	msg := emptyFeedMessage
	var te *domain.TransportError
	if errors.As(err, &te) {
		msg = fmt.Sprintf("%s (HTTP %d)", emptyFeedMessage, te.StatusCode)
	}
	t.region.Render(domain.Frame{Err: msg})
	t.log.Error("feed request failed", "err", err)
}

func (t *Ticker) onTimer() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tickLocked()
}

// tickLocked evaluates one transition of the rotation loop and schedules
// the next one.
func (t *Ticker) tickLocked() {
	t.timer = nil
	if t.state == StateStopped || t.state == StateError || len(t.items) == 0 {
		return
	}

	var delay time.Duration
	item := t.items[t.cursor]
	switch {
	case t.paused:
		delay = PollInterval
	case t.animate:
		title := []rune(item.Title)
		if t.revealLength < len(title) {
			t.state = StateRevealingTitle
			t.renderLocked(item, string(title[:t.revealLength]))
			t.revealLength++
			delay = RevealInterval
		} else {
			t.state = StateShowingFull
			t.renderLocked(item, item.Title)
			t.revealLength = 0
			t.cursor = (t.cursor + 1) % len(t.items)
			delay = HoldInterval
		}
	default:
		t.renderLocked(item, item.Title)
		t.cursor = (t.cursor + 1) % len(t.items)
		delay = HoldInterval
	}

	t.nextDelay = delay
	t.timer = t.clock.AfterFunc(delay, t.onTimer)
}

func (t *Ticker) renderLocked(item domain.FeedItem, title string) {
	t.region.Render(domain.Frame{
		Item:            item,
		Title:           title,
		ShowDescription: t.showDescription,
	})
}
