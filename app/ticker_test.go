package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"newsticker/domain"
	"newsticker/internal/clock"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type stubFetcher struct {
	res domain.FetchResult
	err error
	// block, when set, holds Fetch until the context is done.
	block bool
}

func (s *stubFetcher) Fetch(ctx context.Context, _ string) (domain.FetchResult, error) {
	if s.block {
		<-ctx.Done()
		return domain.FetchResult{}, ctx.Err()
	}
	return s.res, s.err
}

type recordingRegion struct {
	mu     sync.Mutex
	frames []domain.Frame
}

func (r *recordingRegion) Render(f domain.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

func (r *recordingRegion) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, f := range r.frames {
		if f.IsEmpty() {
			continue
		}
		out = append(out, f.Title)
	}
	return out
}

func (r *recordingRegion) last() domain.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[len(r.frames)-1]
}

func (r *recordingRegion) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

type recordingSink struct {
	mu    sync.Mutex
	items []domain.FeedItem
}

func (s *recordingSink) Record(_ context.Context, items []domain.FeedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
	return nil
}

var twoItems = []domain.FeedItem{
	{Title: "A", Link: "/a", Description: "first"},
	{Title: "BB", Link: "/b", Description: "second"},
}

type harness struct {
	ticker *Ticker
	region *recordingRegion
	clock  *clock.FakeClock
}

func startTicker(t *testing.T, fetcher domain.FeedFetcher, mutate func(*Options)) harness {
	t.Helper()
	h := harness{region: &recordingRegion{}, clock: clock.Fake(epoch)}
	opts := Options{
		FeedURL: "https://news.example.edu/rss.xml",
		Fetcher: fetcher,
		Region:  h.region,
		Clock:   h.clock,
	}
	if mutate != nil {
		mutate(&opts)
	}
	tk, err := NewTicker(opts)
	if err != nil {
		t.Fatalf("NewTicker: %v", err)
	}
	h.ticker = tk
	if err := tk.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	select {
	case <-tk.Loaded():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the fetch")
	}
	t.Cleanup(tk.Stop)
	return h
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewTicker_Validation(t *testing.T) {
	base := Options{
		FeedURL: "https://example.edu/rss",
		Fetcher: &stubFetcher{},
		Region:  &recordingRegion{},
	}
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr error
	}{
		{"valid", func(*Options) {}, nil},
		{"relative url", func(o *Options) { o.FeedURL = "/rss.xml" }, ErrInvalidFeedURL},
		{"ftp url", func(o *Options) { o.FeedURL = "ftp://example.edu/rss" }, ErrInvalidFeedURL},
		{"empty url", func(o *Options) { o.FeedURL = "" }, ErrInvalidFeedURL},
		{"no fetcher", func(o *Options) { o.Fetcher = nil }, ErrNoFetcher},
		{"no region", func(o *Options) { o.Region = nil }, ErrNoRegion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.mutate(&opts)
			_, err := NewTicker(opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	opts := base
	opts.OnTransportError = "explode"
	if _, err := NewTicker(opts); err == nil {
		t.Error("unknown policy accepted")
	}
}

func TestTicker_PlainRotation(t *testing.T) {
	h := startTicker(t, &stubFetcher{res: domain.FetchResult{Items: twoItems}}, nil)

	if got := h.region.titles(); !equalStrings(got, []string{"A"}) {
		t.Fatalf("after load titles = %v, want [A]", got)
	}
	if st := h.ticker.Status(); st.Cursor != 1 || st.NextDelay != HoldInterval || st.State != "showing" {
		t.Errorf("status after load = %+v", st)
	}

	h.clock.Advance(HoldInterval - time.Millisecond)
	if len(h.region.titles()) != 1 {
		t.Fatal("rotated before the hold interval elapsed")
	}
	h.clock.Advance(time.Millisecond)
	h.clock.Advance(HoldInterval)

	want := []string{"A", "BB", "A"}
	if got := h.region.titles(); !equalStrings(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
	if h.clock.PendingCount() != 1 {
		t.Errorf("pending timers = %d, want 1", h.clock.PendingCount())
	}
}

func TestTicker_PlainRendersFullTitlesOnly(t *testing.T) {
	h := startTicker(t, &stubFetcher{res: domain.FetchResult{Items: twoItems}}, nil)
	h.clock.Advance(10 * HoldInterval)

	for _, title := range h.region.titles() {
		if title != "A" && title != "BB" {
			t.Fatalf("partial title %q rendered with animation off", title)
		}
	}
}

func TestTicker_CursorIsCircular(t *testing.T) {
	items := []domain.FeedItem{
		{Title: "one", Link: "/1"}, {Title: "two", Link: "/2"}, {Title: "three", Link: "/3"},
	}
	h := startTicker(t, &stubFetcher{res: domain.FetchResult{Items: items}}, nil)

	// The load performs the first tick.
	for ticks := 1; ticks <= 10; ticks++ {
		if got := h.ticker.Status().Cursor; got != ticks%len(items) {
			t.Fatalf("after %d ticks cursor = %d, want %d", ticks, got, ticks%len(items))
		}
		h.clock.Advance(HoldInterval)
	}
}

func TestTicker_RevealSequence(t *testing.T) {
	h := startTicker(t, &stubFetcher{res: domain.FetchResult{Items: twoItems}}, func(o *Options) {
		o.Animate = true
	})

	// Item "A": one fast tick ("") then the full render.
	h.clock.Advance(RevealInterval)
	if got := h.region.titles(); !equalStrings(got, []string{"", "A"}) {
		t.Fatalf("titles = %v", got)
	}
	if st := h.ticker.Status(); st.Cursor != 1 || st.RevealLength != 0 || st.NextDelay != HoldInterval {
		t.Fatalf("after full render status = %+v", st)
	}

	// Item "BB": "", "B" at 50ms steps, then "BB" with the 3000ms hold.
	h.clock.Advance(HoldInterval)
	h.clock.Advance(RevealInterval)
	if st := h.ticker.Status(); st.RevealLength != 2 || st.State != "revealing" {
		t.Fatalf("mid-reveal status = %+v", st)
	}
	h.clock.Advance(RevealInterval)

	want := []string{"", "A", "", "B", "BB"}
	if got := h.region.titles(); !equalStrings(got, want) {
		t.Fatalf("titles = %v, want %v", got, want)
	}
	if st := h.ticker.Status(); st.Cursor != 0 || st.RevealLength != 0 || st.NextDelay != HoldInterval {
		t.Errorf("after BB status = %+v", st)
	}
}

func TestTicker_RevealCountsFastTicks(t *testing.T) {
	title := "Université"
	items := []domain.FeedItem{{Title: title, Link: "/u"}}
	h := startTicker(t, &stubFetcher{res: domain.FetchResult{Items: items}}, func(o *Options) {
		o.Animate = true
	})

	length := len([]rune(title))
	fast := 1 // the load tick
	for h.ticker.Status().NextDelay == RevealInterval {
		if got := h.ticker.Status().RevealLength; got != fast {
			t.Fatalf("reveal length %d after %d fast ticks", got, fast)
		}
		h.clock.Advance(RevealInterval)
		fast++
	}
	// fast counts ticks evaluated; the last one was the slow full render.
	if fast-1 != length {
		t.Errorf("fast ticks = %d, want %d", fast-1, length)
	}
	if last := h.region.last(); last.Title != title {
		t.Errorf("final title = %q", last.Title)
	}
}

func TestTicker_DescriptionAppendedInFull(t *testing.T) {
	h := startTicker(t, &stubFetcher{res: domain.FetchResult{Items: twoItems}}, func(o *Options) {
		o.Animate = true
		o.ShowDescription = true
	})

	f := h.region.last()
	if !f.ShowDescription || f.Item.Description != "first" || f.Title != "" {
		t.Errorf("first reveal frame = %+v", f)
	}
}

func TestTicker_PauseFreezesState(t *testing.T) {
	h := startTicker(t, &stubFetcher{res: domain.FetchResult{Items: twoItems}}, func(o *Options) {
		o.Animate = true
	})
	h.clock.Advance(RevealInterval)
	h.clock.Advance(HoldInterval)

	h.ticker.SetHover(true)
	h.clock.Advance(RevealInterval) // the pending tick sees the hover
	before := h.ticker.Status()
	renders := h.region.count()

	for i := 0; i < 20; i++ {
		h.clock.Advance(PollInterval)
		st := h.ticker.Status()
		if st.Cursor != before.Cursor || st.RevealLength != before.RevealLength {
			t.Fatalf("paused tick changed state: %+v -> %+v", before, st)
		}
		if st.NextDelay != PollInterval || st.State != "paused" || !st.Paused {
			t.Fatalf("paused status = %+v", st)
		}
	}
	if h.region.count() != renders {
		t.Errorf("paused ticks rendered %d frames", h.region.count()-renders)
	}
	if h.clock.PendingCount() != 1 {
		t.Errorf("pending timers = %d, want 1", h.clock.PendingCount())
	}

	h.ticker.SetHover(false)
	h.clock.Advance(PollInterval)
	if h.region.count() == renders {
		t.Error("rotation did not resume after hover ended")
	}
}

func TestTicker_EmptyFeedIsTerminal(t *testing.T) {
	body := []byte("<rss><channel></channel></rss>")
	h := startTicker(t, &stubFetcher{res: domain.FetchResult{Body: body}}, nil)

	last := h.region.last()
	if !last.IsError() || last.Body != string(body) {
		t.Fatalf("last frame = %+v", last)
	}
	if h.clock.PendingCount() != 0 {
		t.Errorf("pending timers = %d, want 0", h.clock.PendingCount())
	}
	if st := h.ticker.Status(); st.State != "error" {
		t.Errorf("state = %s", st.State)
	}
	renders := h.region.count()
	h.clock.Advance(time.Minute)
	if h.region.count() != renders {
		t.Error("region rendered after terminal error")
	}
}

func TestTicker_AllEntriesMalformed(t *testing.T) {
	res := domain.FetchResult{
		Body:    []byte("<rss/>"),
		Skipped: []error{&domain.MalformedEntryError{Index: 0, Field: "title"}},
	}
	h := startTicker(t, &stubFetcher{res: res}, nil)
	if !h.region.last().IsError() || h.clock.PendingCount() != 0 {
		t.Error("feed with only malformed entries should end in the error state")
	}
}

func TestTicker_TransportErrorPolicies(t *testing.T) {
	fetchErr := &domain.TransportError{URL: "https://news.example.edu/rss.xml", StatusCode: 503}

	t.Run("retain", func(t *testing.T) {
		h := startTicker(t, &stubFetcher{err: fetchErr}, nil)
		if h.region.count() != 1 || !h.region.last().IsEmpty() {
			t.Errorf("retain policy rendered: %+v", h.region.frames)
		}
		if h.clock.PendingCount() != 0 {
			t.Error("timer scheduled after transport failure")
		}
	})

	t.Run("show error", func(t *testing.T) {
		h := startTicker(t, &stubFetcher{err: fetchErr}, func(o *Options) {
			o.OnTransportError = ShowError
		})
		last := h.region.last()
		if !last.IsError() || last.Err != "fetching remote RSS feed! (HTTP 503)" {
			t.Errorf("last frame = %+v", last)
		}
		if h.ticker.Status().State != "error" {
			t.Errorf("state = %s", h.ticker.Status().State)
		}
	})
}

func TestTicker_StopClearsTimer(t *testing.T) {
	h := startTicker(t, &stubFetcher{res: domain.FetchResult{Items: twoItems}}, nil)
	if h.clock.PendingCount() != 1 {
		t.Fatalf("pending timers = %d, want 1", h.clock.PendingCount())
	}

	h.ticker.Stop()
	h.ticker.Stop()
	if h.clock.PendingCount() != 0 {
		t.Errorf("pending timers after Stop = %d", h.clock.PendingCount())
	}
	renders := h.region.count()
	h.clock.Advance(time.Minute)
	if h.region.count() != renders {
		t.Error("stopped ticker rendered")
	}
	if h.ticker.Status().State != "stopped" {
		t.Errorf("state = %s", h.ticker.Status().State)
	}
	if err := h.ticker.Start(context.Background()); !errors.Is(err, ErrTickerStopped) {
		t.Errorf("restart err = %v", err)
	}
}

func TestTicker_StopDuringFetch(t *testing.T) {
	region := &recordingRegion{}
	fc := clock.Fake(epoch)
	tk, err := NewTicker(Options{
		FeedURL: "http://example.edu/rss",
		Fetcher: &stubFetcher{block: true},
		Region:  region,
		Clock:   fc,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := tk.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := tk.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start err = %v", err)
	}
	tk.Stop()

	select {
	case <-tk.Loaded():
	case <-time.After(5 * time.Second):
		t.Fatal("fetch goroutine did not finish after Stop")
	}
	if fc.PendingCount() != 0 || region.count() != 1 {
		t.Errorf("pending = %d, frames = %d", fc.PendingCount(), region.count())
	}
}

func TestTicker_SinkReceivesHeadlines(t *testing.T) {
	sink := &recordingSink{}
	startTicker(t, &stubFetcher{res: domain.FetchResult{Items: twoItems}}, func(o *Options) {
		o.Sink = sink
	})
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.items) != 2 {
		t.Errorf("sink got %d items", len(sink.items))
	}
}
