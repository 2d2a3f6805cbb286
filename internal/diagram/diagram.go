// Package diagram resolves diagram placeholders produced by the render
// pipeline. Each placeholder is an independent unit of work: the batch
// only joins at completion, and one failing diagram never affects its
// siblings.
package diagram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"marklive/internal/render"
)

// Theme selects the color scheme baked into generated diagrams.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// State tracks a placeholder through its life cycle. Transitions are
// pending -> succeeded or pending -> failed, terminal either way; a new
// render cycle creates fresh placeholders instead of resetting old ones.
type State int

const (
	StatePending State = iota
	StateSucceeded
	StateFailed
)

// Placeholder is one diagram fence awaiting rendering. ID is assigned
// by Renderer.Process and is unique for the lifetime of the process.
type Placeholder struct {
	ID     uint64
	Index  int // position within the rendered document, 0-based
	Source string
	State  State
}

// Engine is the external diagram layout service. Render returns the
// SVG for source, or an error describing why layout failed.
type Engine interface {
	Render(ctx context.Context, source string, theme Theme) (string, error)
}

// Result is the terminal outcome for one placeholder. HTML is the
// replacement fragment for the pending container: the graphic on
// success, an inline error otherwise.
type Result struct {
	Placeholder *Placeholder
	HTML        string
}

// Renderer resolves batches of placeholders against an Engine.
type Renderer struct {
	engine Engine
	seq    *Sequence
}

// NewRenderer creates a Renderer drawing placeholder identifiers from
// seq. Share one Sequence across all renderers in a process.
func NewRenderer(engine Engine, seq *Sequence) *Renderer {
	return &Renderer{engine: engine, seq: seq}
}

// Process assigns identifiers to the batch in document order and
// renders every placeholder concurrently. Results arrive on the
// returned channel as placeholders reach a terminal state, and the
// channel closes once the whole batch is terminal. Cancelling ctx makes
// remaining placeholders fail; it never leaves one pending.
func (r *Renderer) Process(ctx context.Context, batch []*Placeholder, theme Theme) <-chan Result {
	for _, p := range batch {
		p.ID = r.seq.Next()
	}

	out := make(chan Result)
	var wg sync.WaitGroup
	for _, p := range batch {
		wg.Add(1)
		go func(p *Placeholder) {
			defer wg.Done()
			out <- r.resolve(ctx, p, theme)
		}(p)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func (r *Renderer) resolve(ctx context.Context, p *Placeholder, theme Theme) (res Result) {
	// A panicking engine counts as a failed placeholder.
	defer func() {
		if v := recover(); v != nil {
			p.State = StateFailed
			res = Result{Placeholder: p, HTML: failureHTML(p, fmt.Errorf("diagram engine panic: %v", v))}
		}
	}()

	svg, err := r.engine.Render(ctx, p.Source, theme)
	if err != nil {
		p.State = StateFailed
		return Result{Placeholder: p, HTML: failureHTML(p, err)}
	}
	p.State = StateSucceeded
	return Result{Placeholder: p, HTML: successHTML(p, svg)}
}

// successHTML wraps the generated graphic. The container id derives
// from the process-unique placeholder ID so that browser-side caches
// keyed on element ids can never collide across render cycles.
func successHTML(p *Placeholder, svg string) string {
	var b strings.Builder
	b.WriteString(`<div class="diagram diagram-done" id="diagram-`)
	b.WriteString(strconv.FormatUint(p.ID, 10))
	b.WriteString(`" data-diagram-index="`)
	b.WriteString(strconv.Itoa(p.Index))
	b.WriteString(`">`)
	b.WriteString(svg)
	b.WriteString("</div>\n")
	return b.String()
}

func failureHTML(p *Placeholder, err error) string {
	var b strings.Builder
	b.WriteString(`<div class="diagram diagram-error" id="diagram-`)
	b.WriteString(strconv.FormatUint(p.ID, 10))
	b.WriteString(`" data-diagram-index="`)
	b.WriteString(strconv.Itoa(p.Index))
	b.WriteString(`"><pre>`)
	b.WriteString(render.Escape(err.Error()))
	b.WriteString("</pre></div>\n")
	return b.String()
}
