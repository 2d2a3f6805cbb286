package render

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// DefaultDiagramMarker is the language tag that routes a fenced block
// to the diagram subsystem instead of syntax highlighting.
const DefaultDiagramMarker = "d2"

// CodeBlockRenderer converts one fenced code block (content plus
// language tag) into an HTML fragment. The language tag may be empty.
type CodeBlockRenderer interface {
	RenderCodeBlock(content, lang string) string
}

// fenceStrategy is the default strategy, applied in priority order:
// the diagram marker wins, then a recognized language is highlighted,
// then the block degrades to a plain escaped code container. Diagram
// fence sources are collected in document order so the caller can hand
// them to the diagram renderer; the raw source must survive unchanged,
// which is why only the displayed copy is escaped.
type fenceStrategy struct {
	marker      string
	highlighter *Highlighter
	diagrams    []string
}

func (s *fenceStrategy) RenderCodeBlock(content, lang string) string {
	lang = normalizeLang(lang)

	if lang == s.marker && s.marker != "" {
		index := len(s.diagrams)
		s.diagrams = append(s.diagrams, content)
		return PendingDiagramHTML(index, content)
	}

	if lang != "" && s.highlighter.Supports(lang) {
		if out, err := s.highlighter.Highlight(content, lang); err == nil {
			return out
		}
		// Highlighting is an enhancement, never a render blocker.
	}

	var b strings.Builder
	b.WriteString("<pre><code")
	if lang != "" {
		b.WriteString(` class="language-`)
		b.WriteString(Escape(lang))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	b.WriteString(Escape(content))
	b.WriteString("</code></pre>\n")
	return b.String()
}

// PendingDiagramHTML is the placeholder container emitted for a fenced
// block tagged with the diagram marker. The index identifies the
// placeholder within one rendered document; the diagram renderer later
// replaces the container wholesale.
func PendingDiagramHTML(index int, source string) string {
	var b strings.Builder
	b.WriteString(`<div class="diagram diagram-pending" data-diagram-index="`)
	b.WriteString(strconv.Itoa(index))
	b.WriteString(`"><pre>`)
	b.WriteString(Escape(source))
	b.WriteString("</pre></div>\n")
	return b.String()
}

// normalizeLang lowercases the tag and drops fence attributes after the
// first space ("go linenos" -> "go").
func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexByte(lang, ' '); i >= 0 {
		lang = lang[:i]
	}
	return lang
}

// fencedBlockRenderer plugs a CodeBlockRenderer into goldmark, taking
// over all fenced code block rendering.
type fencedBlockRenderer struct {
	strategy CodeBlockRenderer
}

func (r *fencedBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.render)
}

func (r *fencedBlockRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code []byte
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code = append(code, line.Value(source)...)
	}

	_, _ = w.WriteString(r.strategy.RenderCodeBlock(string(code), string(n.Language(source))))
	return ast.WalkSkipChildren, nil
}
