// Package site renders a directory of markdown files into a static
// HTML site using the same pipeline as the live preview, resolving
// diagram fences at build time instead of streaming them.
package site

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"

	"marklive/internal/diagram"
	"marklive/internal/render"
)

// Generator converts markdown files under DocsDir into HTML pages.
type Generator struct {
	DocsDir   string
	OutputDir string
	Include   []string
	Exclude   []string
	Theme     diagram.Theme
	Quiet     bool // suppress the progress bar

	Converter *render.Converter
	Diagrams  *diagram.Renderer
}

// Generate builds the site and returns the number of pages written.
func (g *Generator) Generate(ctx context.Context) (int, error) {
	var mdPaths []string
	err := filepath.Walk(g.DocsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		rel, err := filepath.Rel(g.DocsDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchesInclude(rel, g.Include) || matchesExclude(rel, g.Exclude) {
			return nil
		}
		mdPaths = append(mdPaths, rel)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walking docs dir: %w", err)
	}

	if len(mdPaths) == 0 {
		return 0, fmt.Errorf("no markdown files found in %s", g.DocsDir)
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return 0, err
	}

	var bar *progressbar.ProgressBar
	if !g.Quiet {
		bar = progressbar.NewOptions(len(mdPaths),
			progressbar.OptionSetDescription("Rendering pages"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, relPath := range mdPaths {
		if err := g.renderPage(ctx, relPath); err != nil {
			return 0, fmt.Errorf("rendering %s: %w", relPath, err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	return len(mdPaths), nil
}

// renderPage converts one markdown file to an HTML page, resolving its
// diagram fences synchronously.
func (g *Generator) renderPage(ctx context.Context, relPath string) error {
	srcPath := filepath.Join(g.DocsDir, filepath.FromSlash(relPath))
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}

	htmlContent, sources := g.Converter.ToHTML(string(content))

	// Resolve the whole diagram batch before writing; in batch mode
	// there is nobody to stream patches to.
	if len(sources) > 0 {
		batch := make([]*diagram.Placeholder, len(sources))
		for i, src := range sources {
			batch[i] = &diagram.Placeholder{Index: i, Source: src}
		}
		for res := range g.Diagrams.Process(ctx, batch, g.Theme) {
			pending := render.PendingDiagramHTML(res.Placeholder.Index, res.Placeholder.Source)
			htmlContent = strings.Replace(htmlContent, pending, res.HTML, 1)
		}
	}

	htmlContent = rewriteMDLinks(htmlContent)

	outPath := filepath.Join(g.OutputDir, filepath.FromSlash(mdPathToHTML(relPath)))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	data := pageData{
		Title:   extractTitle(string(content), relPath),
		Theme:   string(g.Theme),
		Content: template.HTML(htmlContent),
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return pageTemplate.Execute(f, data)
}

// extractTitle pulls the first # heading from markdown content, or
// falls back to the filename.
func extractTitle(content, relPath string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return strings.TrimSuffix(filepath.Base(relPath), ".md")
}

// mdPathToHTML maps a source path to its output path.
func mdPathToHTML(relPath string) string {
	return strings.TrimSuffix(relPath, ".md") + ".html"
}

// rewriteMDLinks changes .md links in HTML content to .html links so
// cross-references keep working in the generated site.
func rewriteMDLinks(content string) string {
	content = strings.ReplaceAll(content, `.md"`, `.html"`)
	content = strings.ReplaceAll(content, `.md#`, `.html#`)
	return content
}

// matchesInclude reports whether relPath matches any include pattern.
// An empty pattern list includes everything.
func matchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// matchesExclude reports whether relPath matches any exclude pattern.
func matchesExclude(relPath string, patterns []string) bool {
	return matchesAny(relPath, patterns)
}

// matchesAny checks relPath against glob patterns, with ** support.
// Patterns are also tried against the bare filename.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}
		if matched, err := doublestar.PathMatch(pattern, filepath.Base(normalized)); err == nil && matched {
			return true
		}
	}
	return false
}
