package preview

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"marklive/internal/diagram"
	"marklive/internal/render"
)

// recordingSink captures everything the controller delivers.
type recordingSink struct {
	mu       sync.Mutex
	renders  []sinkRender
	diagrams []sinkDiagram
}

type sinkRender struct {
	seq  uint64
	html string
}

type sinkDiagram struct {
	seq       uint64
	index     int
	id        uint64
	succeeded bool
	html      string
}

func (s *recordingSink) ShowRender(seq uint64, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders = append(s.renders, sinkRender{seq, html})
}

func (s *recordingSink) ShowDiagram(seq uint64, index int, id uint64, succeeded bool, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagrams = append(s.diagrams, sinkDiagram{seq, index, id, succeeded, html})
}

func (s *recordingSink) snapshot() ([]sinkRender, []sinkDiagram) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sinkRender(nil), s.renders...), append([]sinkDiagram(nil), s.diagrams...)
}

// gateEngine blocks rendering of sources containing "slow" until the
// gate opens, and fails sources containing "bad".
type gateEngine struct {
	mu    sync.Mutex
	calls int
	gate  chan struct{}
}

func (e *gateEngine) Render(ctx context.Context, source string, theme diagram.Theme) (string, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if strings.Contains(source, "slow") && e.gate != nil {
		select {
		case <-e.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "<svg>" + render.Escape(source) + "</svg>", nil
}

func (e *gateEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func newTestController(engine diagram.Engine, sink Sink) *Controller {
	conv := render.NewConverter(render.Options{})
	dr := diagram.NewRenderer(engine, &diagram.Sequence{})
	return NewController(conv, dr, sink, diagram.ThemeLight)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestRenderBlankInputShowsPlaceholder(t *testing.T) {
	sink := &recordingSink{}
	engine := &gateEngine{}
	c := newTestController(engine, sink)

	for _, src := range []string{"", "   ", "\n\t\n"} {
		c.Render(src)
	}

	renders, diagrams := sink.snapshot()
	if len(renders) != 3 {
		t.Fatalf("expected 3 renders, got %d", len(renders))
	}
	for _, r := range renders {
		if r.html != PlaceholderHTML {
			t.Errorf("blank render = %q, want placeholder", r.html)
		}
	}
	if len(diagrams) != 0 || engine.callCount() != 0 {
		t.Error("blank input must not reach the diagram engine")
	}
}

func TestRenderDeliversDocumentThenDiagrams(t *testing.T) {
	sink := &recordingSink{}
	c := newTestController(&gateEngine{}, sink)

	c.Render("# hi\n\n```d2\na -> b\n```")

	waitFor(t, func() bool {
		_, diagrams := sink.snapshot()
		return len(diagrams) == 1
	})

	renders, diagrams := sink.snapshot()
	if len(renders) != 1 {
		t.Fatalf("expected 1 render, got %d", len(renders))
	}
	if !strings.Contains(renders[0].html, "diagram-pending") {
		t.Errorf("document missing pending placeholder: %q", renders[0].html)
	}
	d := diagrams[0]
	if !d.succeeded || d.seq != renders[0].seq || d.index != 0 || d.id == 0 {
		t.Errorf("unexpected diagram patch %+v", d)
	}
	if !strings.Contains(d.html, "a -&gt; b") {
		t.Errorf("patch html = %q", d.html)
	}
}

func TestLatestRenderWins(t *testing.T) {
	sink := &recordingSink{}
	gate := make(chan struct{})
	engine := &gateEngine{gate: gate}
	c := newTestController(engine, sink)

	// Render A carries a diagram whose engine call stalls; render B
	// completes immediately. A's batch resolving after B must leave no
	// trace in the sink.
	c.Render("```d2\nslow A\n```")
	c.Render("# document B\n\n```d2\nfast B\n```")

	waitFor(t, func() bool {
		_, diagrams := sink.snapshot()
		return len(diagrams) == 1
	})
	close(gate) // release A's batch late

	// Give A's stale result time to arrive (it must be dropped).
	time.Sleep(50 * time.Millisecond)

	renders, diagrams := sink.snapshot()
	if len(renders) != 2 {
		t.Fatalf("expected 2 renders, got %d", len(renders))
	}
	last := renders[len(renders)-1]
	if !strings.Contains(last.html, "document B") {
		t.Errorf("final render is not B: %q", last.html)
	}
	for _, d := range diagrams {
		if d.seq != last.seq {
			t.Errorf("stale diagram patch delivered: %+v", d)
		}
		if strings.Contains(d.html, "slow A") {
			t.Errorf("render A content leaked: %q", d.html)
		}
	}
}

func TestMixedBatchOutcomesAreIndependent(t *testing.T) {
	sink := &recordingSink{}
	c := newTestController(&failSecondEngine{}, sink)

	c.Render("```d2\nok\n```\n\n```d2\nbroken\n```")

	waitFor(t, func() bool {
		_, diagrams := sink.snapshot()
		return len(diagrams) == 2
	})

	_, diagrams := sink.snapshot()
	byIndex := map[int]sinkDiagram{}
	for _, d := range diagrams {
		byIndex[d.index] = d
	}
	if !byIndex[0].succeeded {
		t.Error("valid diagram should succeed")
	}
	if byIndex[1].succeeded {
		t.Error("invalid diagram should fail")
	}
	if !strings.Contains(byIndex[1].html, "diagram-error") {
		t.Errorf("failed patch html = %q", byIndex[1].html)
	}
}

// failSecondEngine fails any source containing "broken".
type failSecondEngine struct{}

func (failSecondEngine) Render(ctx context.Context, source string, theme diagram.Theme) (string, error) {
	if strings.Contains(source, "broken") {
		return "", context.DeadlineExceeded
	}
	return "<svg/>", nil
}

func TestSetThemeRerenders(t *testing.T) {
	sink := &recordingSink{}
	c := newTestController(&gateEngine{}, sink)

	c.Render("# doc")
	c.SetTheme(diagram.ThemeDark, "# doc")

	renders, _ := sink.snapshot()
	if len(renders) != 2 {
		t.Fatalf("expected 2 renders after theme switch, got %d", len(renders))
	}
	if c.Theme() != diagram.ThemeDark {
		t.Errorf("theme = %v, want dark", c.Theme())
	}
}
