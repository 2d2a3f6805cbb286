package site

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marklive/internal/diagram"
	"marklive/internal/render"
)

// stubEngine renders a canned SVG and fails sources containing "bad".
type stubEngine struct{}

func (stubEngine) Render(ctx context.Context, source string, theme diagram.Theme) (string, error) {
	if strings.Contains(source, "bad") {
		return "", errors.New("layout failed")
	}
	return "<svg><!-- " + string(theme) + " --></svg>", nil
}

func newTestGenerator(docsDir, outDir string) *Generator {
	return &Generator{
		DocsDir:   docsDir,
		OutputDir: outDir,
		Theme:     diagram.ThemeLight,
		Quiet:     true,
		Converter: render.NewConverter(render.Options{}),
		Diagrams:  diagram.NewRenderer(stubEngine{}, &diagram.Sequence{}),
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateRendersPages(t *testing.T) {
	docs := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(docs, "index.md"), "# Home\n\nwelcome\n")
	writeFile(t, filepath.Join(docs, "guide", "intro.md"), "# Intro\n\nsee [home](../index.md)\n")

	g := newTestGenerator(docs, out)
	n, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if n != 2 {
		t.Errorf("pages = %d, want 2", n)
	}

	home, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(home), "<title>Home</title>") {
		t.Errorf("missing title in %q", home)
	}

	intro, _ := os.ReadFile(filepath.Join(out, "guide", "intro.html"))
	if !strings.Contains(string(intro), `href="../index.html"`) {
		t.Errorf("md link not rewritten in %q", intro)
	}
}

func TestGenerateResolvesDiagrams(t *testing.T) {
	docs := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(docs, "arch.md"), "# Arch\n\n```d2\na -> b\n```\n\n```d2\nbad one\n```\n")

	g := newTestGenerator(docs, out)
	if _, err := g.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	html, _ := os.ReadFile(filepath.Join(out, "arch.html"))
	page := string(html)
	if strings.Contains(page, "diagram-pending") {
		t.Error("pending placeholder left in output")
	}
	if !strings.Contains(page, "diagram-done") || !strings.Contains(page, "<svg>") {
		t.Errorf("resolved diagram missing from %q", page)
	}
	if !strings.Contains(page, "diagram-error") {
		t.Errorf("failed diagram should render inline error, got %q", page)
	}
}

func TestGenerateHonoursIncludeExclude(t *testing.T) {
	docs := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(docs, "keep.md"), "# Keep\n")
	writeFile(t, filepath.Join(docs, "drafts", "skip.md"), "# Skip\n")

	g := newTestGenerator(docs, out)
	g.Exclude = []string{"drafts/**"}
	n, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if n != 1 {
		t.Errorf("pages = %d, want 1", n)
	}
	if _, err := os.Stat(filepath.Join(out, "drafts", "skip.html")); !os.IsNotExist(err) {
		t.Error("excluded page was rendered")
	}
}

func TestGenerateEmptyDirFails(t *testing.T) {
	g := newTestGenerator(t.TempDir(), t.TempDir())
	if _, err := g.Generate(context.Background()); err == nil {
		t.Error("expected error for empty docs dir")
	}
}
