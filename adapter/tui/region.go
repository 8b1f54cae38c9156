// Package tui renders a ticker in the terminal with bubbletea. Mouse
// motion over the ticker lines pauses it the way pointer hover pauses the
// page widget.
package tui

import (
	"sync"

	"newsticker/domain"
)

// Region hands frames to the bubbletea model. It keeps only the newest
// undelivered frame so Render never blocks the ticker.
type Region struct {
	frames    chan domain.Frame
	done      chan struct{}
	closeOnce sync.Once
}

func NewRegion() *Region {
	return &Region{frames: make(chan domain.Frame, 1), done: make(chan struct{})}
}

func (r *Region) Render(f domain.Frame) {
	for {
		select {
		case <-r.done:
			return
		case r.frames <- f:
			return
		default:
		}
		select {
		case <-r.frames:
		default:
		}
	}
}

// Close releases the model's pending frame listener. Later renders are
// dropped.
func (r *Region) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}
