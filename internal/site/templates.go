package site

import "html/template"

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Title   string
	Theme   string
	Content template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root { --bg: #ffffff; --fg: #1f2328; --border: #d0d7de; }
[data-theme="dark"] { --bg: #0d1117; --fg: #e6edf3; --border: #30363d; }
body { margin: 0 auto; max-width: 860px; padding: 32px 24px; font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; line-height: 1.6; background: var(--bg); color: var(--fg); }
pre { background: rgba(128,128,128,.12); padding: 12px; border-radius: 6px; overflow-x: auto; }
table { border-collapse: collapse; }
td, th { border: 1px solid var(--border); padding: 4px 10px; }
.diagram { margin: 16px 0; }
.diagram-error pre { color: #cf222e; }
</style>
</head>
<body>
<main>
{{.Content}}
</main>
</body>
</html>
`
