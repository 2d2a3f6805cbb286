package config

// DefaultExcludes are glob patterns skipped during batch rendering by
// default.
var DefaultExcludes = []string{
	"vendor/**",
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:          "127.0.0.1",
		Port:          6280,
		Theme:         ThemeSystem,
		DiagramMarker: "d2",
		CodeStyle:     "github",
		DebounceMs:    250,
		DataDir:       ".marklive",
		Site: SiteConfig{
			OutputDir: "site",
			Include:   []string{"**/*.md"},
			Exclude:   DefaultExcludes,
		},
	}
}
