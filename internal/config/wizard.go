package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to marklive! Let's configure your editor.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Default theme.
	themePrompt := promptui.Select{
		Label: "Default theme",
		Items: []string{"system", "light", "dark"},
	}
	_, theme, err := themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}
	cfg.Theme = ThemeSetting(theme)

	// 2. Code highlighting style.
	stylePrompt := promptui.Select{
		Label: "Code highlighting style",
		Items: []string{"github", "github-dark", "monokai", "dracula", "solarized-light"},
	}
	_, style, err := stylePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("style selection: %w", err)
	}
	cfg.CodeStyle = style

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port prompt: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 4. Diagram marker.
	markerPrompt := promptui.Prompt{
		Label:   "Diagram fence language tag",
		Default: cfg.DiagramMarker,
	}
	marker, err := markerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("marker prompt: %w", err)
	}
	cfg.DiagramMarker = marker

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
