package domain

import "time"

type Feed struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	URL       string
}

type Article struct {
	ID          string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Title       string
	Link        string
	PublishedAt time.Time
	Description string
	FeedID      string
}

// FeedItem is one headline extracted from a fetched feed document.
type FeedItem struct {
	Title       string
	Link        string
	Description string
	PublishedAt time.Time
}

// FetchResult is what a fetcher hands back for a successful (2xx) response.
// Skipped holds entries dropped for missing sub-fields; DecodeErr is set when
// the body could not be read as a feed document at all.
type FetchResult struct {
	Items     []FeedItem
	Skipped   []error
	Body      []byte
	DecodeErr error
}

// Frame is a single render of a ticker region. Exactly one of Item or Err
// is meaningful; an empty Frame clears the region.
type Frame struct {
	Item            FeedItem
	Title           string
	ShowDescription bool

	Err  string
	Body string
}

// IsError reports whether the frame carries an error message.
func (f Frame) IsError() bool { return f.Err != "" }

// IsEmpty reports whether the frame has nothing to show.
func (f Frame) IsEmpty() bool { return f.Err == "" && f.Item.Link == "" && f.Title == "" }

// TickerStatus is a read-only snapshot of a running ticker.
type TickerStatus struct {
	Name         string        `json:"name,omitempty"`
	ID           string        `json:"id"`
	FeedURL      string        `json:"feed_url"`
	State        string        `json:"state"`
	Items        int           `json:"items"`
	Cursor       int           `json:"cursor"`
	RevealLength int           `json:"reveal_length"`
	Paused       bool          `json:"paused"`
	NextDelay    time.Duration `json:"next_delay"`
}
