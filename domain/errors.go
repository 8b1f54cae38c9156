package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFeedExists     = errors.New("feed already exists")
	ErrFeedNotFound   = errors.New("feed not found")
	ErrTickerNotFound = errors.New("ticker not found")
	ErrFeedTooLarge   = errors.New("feed body too large")
)

// TransportError reports a feed response with a non-success status.
type TransportError struct {
	URL        string
	StatusCode int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// EmptyFeedError reports a successful response with no usable entries.
type EmptyFeedError struct {
	URL     string
	Skipped int
}

func (e *EmptyFeedError) Error() string {
	if e.Skipped > 0 {
		return fmt.Sprintf("feed %s: no usable entries (%d malformed)", e.URL, e.Skipped)
	}
	return fmt.Sprintf("feed %s: no entries", e.URL)
}

// MalformedEntryError reports a feed entry missing a required sub-element.
type MalformedEntryError struct {
	Index int
	Field string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("entry %d: missing %s", e.Index, e.Field)
}
