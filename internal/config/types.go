package config

// ThemeSetting is the default theme handed to fresh browser sessions.
type ThemeSetting string

const (
	// ThemeSystem defers to the browser's light/dark signal.
	ThemeSystem ThemeSetting = "system"
	ThemeLight  ThemeSetting = "light"
	ThemeDark   ThemeSetting = "dark"
)

// Config is the top-level marklive configuration, corresponding to .marklive.yml.
type Config struct {
	Host          string       `yaml:"host" koanf:"host"`
	Port          int          `yaml:"port" koanf:"port"`
	Theme         ThemeSetting `yaml:"theme" koanf:"theme"`
	DiagramMarker string       `yaml:"diagram_marker" koanf:"diagram_marker"`
	CodeStyle     string       `yaml:"code_style" koanf:"code_style"`
	DebounceMs    int          `yaml:"debounce_ms" koanf:"debounce_ms"`
	DataDir       string       `yaml:"data_dir" koanf:"data_dir"`
	Site          SiteConfig   `yaml:"site" koanf:"site"`
}

// SiteConfig holds settings for batch rendering a directory of
// markdown files ("marklive render").
type SiteConfig struct {
	OutputDir string   `yaml:"output_dir" koanf:"output_dir"`
	Include   []string `yaml:"include" koanf:"include"`
	Exclude   []string `yaml:"exclude" koanf:"exclude"`
}
