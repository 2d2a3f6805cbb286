package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"marklive/internal/config"
	"marklive/internal/diagram"
	"marklive/internal/render"
	"marklive/internal/site"
)

var (
	renderOut   string
	renderTheme string
)

var renderCmd = &cobra.Command{
	Use:   "render [docs-dir]",
	Short: "Render a directory of markdown files into a static site",
	Long: `Walks a directory of markdown files and renders each one to
HTML using the live-preview pipeline. Diagram fences are resolved
inline at build time and .md links are rewritten to .html.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		docsDir := "."
		if len(args) == 1 {
			docsDir = args[0]
		}
		outDir := cfg.Site.OutputDir
		if cmd.Flags().Changed("out") {
			outDir = renderOut
		}
		theme := defaultDiagramTheme(cfg.Theme)
		if cmd.Flags().Changed("theme") {
			parsed, ok := parseDiagramTheme(renderTheme)
			if !ok {
				return fmt.Errorf("unknown theme %q (want light or dark)", renderTheme)
			}
			theme = parsed
		}

		conv := render.NewConverter(render.Options{
			DiagramMarker: cfg.DiagramMarker,
			CodeStyle:     cfg.CodeStyle,
		})
		engine, err := diagram.NewD2Engine()
		if err != nil {
			return fmt.Errorf("initializing diagram engine: %w", err)
		}

		gen := &site.Generator{
			DocsDir:   docsDir,
			OutputDir: outDir,
			Include:   cfg.Site.Include,
			Exclude:   cfg.Site.Exclude,
			Theme:     theme,
			Converter: conv,
			Diagrams:  diagram.NewRenderer(engine, &diagram.Sequence{}),
		}

		start := time.Now()
		pages, err := gen.Generate(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Rendered %d pages to %s in %s\n", pages, outDir, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func parseDiagramTheme(v string) (diagram.Theme, bool) {
	switch v {
	case "light":
		return diagram.ThemeLight, true
	case "dark":
		return diagram.ThemeDark, true
	}
	return "", false
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output directory (overrides config)")
	renderCmd.Flags().StringVar(&renderTheme, "theme", "", "diagram theme: light or dark")
	rootCmd.AddCommand(renderCmd)
}
