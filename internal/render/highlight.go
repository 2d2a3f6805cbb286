package render

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter is the boundary to the syntax highlighting service. It is
// best effort throughout: callers fall back to a plain code container
// whenever Highlight returns an error.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHighlighter creates a highlighter using the named chroma style.
// Unknown style names fall back to the chroma default.
func NewHighlighter(styleName string) *Highlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{
		style:     style,
		formatter: chromahtml.New(chromahtml.WithClasses(false)),
	}
}

// Supports reports whether a lexer is registered for the language tag.
func (h *Highlighter) Supports(lang string) bool {
	if strings.TrimSpace(lang) == "" {
		return false
	}
	return lexers.Get(lang) != nil
}

// Highlight renders code as inline-styled HTML. It returns an error
// when the language is unknown or tokenisation fails.
func (h *Highlighter) Highlight(code, lang string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", fmt.Errorf("no lexer registered for %q", lang)
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising %s block: %w", lang, err)
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("formatting %s block: %w", lang, err)
	}
	return buf.String(), nil
}
