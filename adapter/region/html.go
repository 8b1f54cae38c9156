// Package region holds the HTML render target for tickers.
package region

import (
	"bytes"
	"html/template"
	"sync"

	"newsticker/domain"
)

const (
	DefaultID    = "newsbox"
	DefaultClass = "newsclass"
)

var fragmentTmpl = template.Must(template.New("fragment").Parse(
	`{{if .Err}}<b>Error</b> {{.Err}}<br />{{.Body}}` +
		`{{else if not .IsEmpty}}<p>Latest: <a href="{{.Item.Link}}">{{.Title}}</a>` +
		`{{if .ShowDescription}}<br />{{.Item.Description}}{{end}}</p>{{end}}`))

var containerTmpl = template.Must(template.New("container").Parse(
	`<div id="{{.ID}}" class="{{.Class}}">{{.Inner}}</div>`))

// HTML keeps the current fragment of one ticker. Render replaces it.
type HTML struct {
	id    string
	class string

	mu      sync.RWMutex
	current template.HTML
	renders int
}

// NewHTML creates a region rendered as <div id=id class=class>. Empty
// arguments fall back to the newsbox defaults.
func NewHTML(id, class string) *HTML {
	if id == "" {
		id = DefaultID
	}
	if class == "" {
		class = DefaultClass
	}
	return &HTML{id: id, class: class}
}

func (h *HTML) ID() string { return h.id }

// Render formats the frame and swaps it in.
func (h *HTML) Render(f domain.Frame) {
	var buf bytes.Buffer
	// The template only reads plain fields; Execute cannot fail on a Frame.
	_ = fragmentTmpl.Execute(&buf, f)

	h.mu.Lock()
	h.current = template.HTML(buf.String())
	h.renders++
	h.mu.Unlock()
}

// HTML returns the inner content of the region.
func (h *HTML) HTML() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return string(h.current)
}

// Container returns the region wrapped in its div.
func (h *HTML) Container() string {
	h.mu.RLock()
	inner := h.current
	h.mu.RUnlock()

	var buf bytes.Buffer
	_ = containerTmpl.Execute(&buf, struct {
		ID, Class string
		Inner     template.HTML
	}{h.id, h.class, inner})
	return buf.String()
}

// Renders counts Render calls.
func (h *HTML) Renders() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.renders
}
