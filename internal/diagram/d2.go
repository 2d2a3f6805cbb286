package diagram

import (
	"context"
	"fmt"
	"sync"

	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	d2log "oss.terrastruct.com/d2/lib/log"
	"oss.terrastruct.com/d2/lib/textmeasure"
)

// D2Engine renders diagram source to SVG with the d2 layout engine.
// Theme selection is a generation-time input: the light and dark SVGs
// differ in their encoded colors, not just in styling hooks, which is
// why a theme change forces a diagram re-render upstream.
type D2Engine struct {
	mu    sync.Mutex // the ruler is not safe for concurrent use
	ruler *textmeasure.Ruler
}

// NewD2Engine creates the production diagram engine.
func NewD2Engine() (*D2Engine, error) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, fmt.Errorf("creating text ruler: %w", err)
	}
	return &D2Engine{ruler: ruler}, nil
}

// Render compiles and lays out source, returning SVG markup.
func (e *D2Engine) Render(ctx context.Context, source string, theme Theme) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx = d2log.WithDefault(ctx)

	themeID := d2themescatalog.NeutralDefault.ID
	if theme == ThemeDark {
		themeID = d2themescatalog.DarkMauve.ID
	}
	pad := int64(d2svg.DEFAULT_PADDING)
	renderOpts := &d2svg.RenderOpts{
		Pad:     &pad,
		ThemeID: &themeID,
	}
	compileOpts := &d2lib.CompileOptions{
		Ruler: e.ruler,
		LayoutResolver: func(engine string) (d2graph.LayoutGraph, error) {
			return d2dagrelayout.DefaultLayout, nil
		},
	}

	diag, _, err := d2lib.Compile(ctx, source, compileOpts, renderOpts)
	if err != nil {
		return "", fmt.Errorf("compiling diagram: %w", err)
	}
	svg, err := d2svg.Render(diag, renderOpts)
	if err != nil {
		return "", fmt.Errorf("rendering diagram: %w", err)
	}
	return string(svg), nil
}
