package render

import "strings"

// htmlEscaper maps the five characters that break out of HTML text and
// attribute contexts to their named references.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape returns s with & < > " ' replaced by HTML references. Every
// user-sourced string must pass through Escape exactly once before it
// is placed into HTML; applying it twice double-escapes.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}
