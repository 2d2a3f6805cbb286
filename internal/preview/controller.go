// Package preview orchestrates the live render pipeline: debounced
// input, Markdown conversion, asynchronous diagram resolution and the
// websocket sessions that carry the results to the browser shell.
package preview

import (
	"context"
	"strings"
	"sync"

	"marklive/internal/diagram"
	"marklive/internal/render"
)

// PlaceholderHTML is shown whenever the document is empty or
// whitespace-only; the converter is never invoked for such input.
const PlaceholderHTML = `<p class="preview-empty">Nothing to preview yet. Start typing on the left.</p>`

// Sink receives rendering output for display. Implementations must
// tolerate calls from multiple goroutines.
type Sink interface {
	// ShowRender replaces the whole preview with html.
	ShowRender(seq uint64, html string)
	// ShowDiagram replaces the placeholder at index within the render
	// identified by seq. id is the process-unique diagram identifier.
	ShowDiagram(seq uint64, index int, id uint64, succeeded bool, html string)
}

// Controller owns the render pipeline for one editing session and
// enforces the latest-render-wins contract: output belonging to a
// superseded render cycle is never delivered. Staleness is checked by
// sequence number rather than structural cancellation; the superseded
// batch's context is additionally cancelled so the engine can stop
// early, but correctness never depends on that.
type Controller struct {
	conv     *render.Converter
	diagrams *diagram.Renderer
	sink     Sink

	mu     sync.Mutex
	theme  diagram.Theme
	seq    uint64
	cancel context.CancelFunc
}

// NewController creates a Controller rendering with the given theme.
func NewController(conv *render.Converter, diagrams *diagram.Renderer, sink Sink, theme diagram.Theme) *Controller {
	return &Controller{
		conv:     conv,
		diagrams: diagrams,
		sink:     sink,
		theme:    theme,
	}
}

// Render converts source, pushes the full document to the sink, then
// resolves diagram placeholders asynchronously, streaming one patch per
// placeholder. Calling Render again supersedes all in-flight work.
func (c *Controller) Render(source string) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	theme := c.theme
	c.mu.Unlock()

	if strings.TrimSpace(source) == "" {
		if c.current(seq) {
			c.sink.ShowRender(seq, PlaceholderHTML)
		}
		return
	}

	html, sources := c.conv.ToHTML(source)
	if !c.current(seq) {
		return
	}
	c.sink.ShowRender(seq, html)

	if len(sources) == 0 {
		return
	}
	batch := make([]*diagram.Placeholder, len(sources))
	for i, src := range sources {
		batch[i] = &diagram.Placeholder{Index: i, Source: src}
	}
	results := c.diagrams.Process(ctx, batch, theme)
	go func() {
		// Drain the whole batch even when superseded, so its workers
		// are never blocked on the results channel.
		for res := range results {
			if !c.current(seq) {
				continue
			}
			p := res.Placeholder
			c.sink.ShowDiagram(seq, p.Index, p.ID, p.State == diagram.StateSucceeded, res.HTML)
		}
	}()
}

// SetTheme switches the diagram color scheme and re-renders source.
// Diagram colors are baked in at generation time, so restyling alone
// cannot apply a theme change.
func (c *Controller) SetTheme(theme diagram.Theme, source string) {
	c.mu.Lock()
	c.theme = theme
	c.mu.Unlock()
	c.Render(source)
}

// Theme returns the current diagram theme.
func (c *Controller) Theme() diagram.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// Stop cancels any in-flight diagram batch.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) current(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq == seq
}
