package cmd

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"marklive/internal/config"
	"marklive/internal/diagram"
	"marklive/internal/preview"
	"marklive/internal/render"
	"marklive/internal/server"
	"marklive/internal/store"
)

var (
	servePort    int
	serveHost    string
	serveOpen    bool
	serveAllowed bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the live preview server",
	Long: `Starts the marklive server: an editor page with a live preview
over a websocket. Edits are debounced, rendered to HTML on the server
and streamed back, with diagram fences resolved asynchronously.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if cmd.Flags().Changed("host") {
			cfg.Host = serveHost
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		settings, err := store.Open(filepath.Join(cfg.DataDir, "marklive.db"))
		if err != nil {
			return fmt.Errorf("opening settings store: %w", err)
		}
		defer settings.Close()

		conv := render.NewConverter(render.Options{
			DiagramMarker: cfg.DiagramMarker,
			CodeStyle:     cfg.CodeStyle,
		})
		engine, err := diagram.NewD2Engine()
		if err != nil {
			return fmt.Errorf("initializing diagram engine: %w", err)
		}
		renderer := diagram.NewRenderer(engine, &diagram.Sequence{})

		hub := preview.NewHub(conv, renderer, settings,
			time.Duration(cfg.DebounceMs)*time.Millisecond, defaultDiagramTheme(cfg.Theme))

		srv := server.New(server.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Theme:    string(cfg.Theme),
			AllowAll: serveAllowed,
		}, settings, hub)

		if serveOpen {
			openBrowser(fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port))
		}
		return srv.Start()
	},
}

// defaultDiagramTheme maps the configured page theme onto a diagram
// theme. Diagrams have no "system" variant, so that case renders light
// until the browser reports its preference.
func defaultDiagramTheme(t config.ThemeSetting) diagram.Theme {
	if t == config.ThemeDark {
		return diagram.ThemeDark
	}
	return diagram.ThemeLight
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("[serve] could not open browser: %v", err)
	}
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 6280, "port to listen on")
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "host to bind")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the editor in a browser")
	serveCmd.Flags().BoolVar(&serveAllowed, "allow-all-origins", false, "allow all CORS origins")
	rootCmd.AddCommand(serveCmd)
}
