// Package render converts Markdown source into HTML fragments. Fenced
// code blocks bypass goldmark's own renderer and go through a pluggable
// strategy that routes diagram fences to the diagram subsystem and
// everything else through syntax highlighting with a plain-text
// fallback.
package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Options configure the conversion pipeline.
type Options struct {
	DiagramMarker string // language tag routed to diagram rendering
	CodeStyle     string // chroma style name for highlighted blocks
}

// Converter turns Markdown into HTML with GFM extensions (tables, task
// lists, strikethrough) and newline-sensitive paragraphs.
type Converter struct {
	opts        Options
	highlighter *Highlighter
}

// NewConverter creates a Converter. Zero-value options get defaults
// (marker "d2", style "github").
func NewConverter(opts Options) *Converter {
	if opts.DiagramMarker == "" {
		opts.DiagramMarker = DefaultDiagramMarker
	}
	if opts.CodeStyle == "" {
		opts.CodeStyle = "github"
	}
	return &Converter{
		opts:        opts,
		highlighter: NewHighlighter(opts.CodeStyle),
	}
}

// ToHTML converts source to an HTML fragment and returns the raw
// contents of all diagram fences in document order. It never fails:
// if the grammar engine reports an error the whole document degrades to
// escaped literal text.
//
// A fresh goldmark instance is built per call so the fence strategy can
// collect per-document state without locking.
func (c *Converter) ToHTML(source string) (string, []string) {
	strategy := &fenceStrategy{
		marker:      c.opts.DiagramMarker,
		highlighter: c.highlighter,
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			renderer.WithNodeRenderers(
				util.Prioritized(&fencedBlockRenderer{strategy: strategy}, 100),
			),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "<pre>" + Escape(source) + "</pre>\n", nil
	}
	return buf.String(), strategy.diagrams
}
