package config

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/stamp/internal/locale"
	"github.com/ziadkadry99/stamp/internal/render"
)

// ambientChoice is the wizard entry that leaves the locale unset.
const ambientChoice = "ambient (follow LC_ALL / LC_TIME / LANG)"

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to stamp! Let's configure how timestamps are rendered.")
	fmt.Println()
	fmt.Printf("Detected ambient locale: %s\n\n", locale.Ambient())

	cfg := DefaultConfig()

	// 1. Locale.
	items := []string{ambientChoice}
	for _, tag := range locale.Default().Tags() {
		items = append(items, tag.String())
	}
	localePrompt := promptui.Select{
		Label: "Select locale",
		Items: items,
	}
	idx, choice, err := localePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("locale selection: %w", err)
	}
	if idx > 0 {
		cfg.Locale = choice
	}

	// 2. Time zone.
	tzPrompt := promptui.Prompt{
		Label:   "Time zone (IANA name, blank for the system zone)",
		Default: "",
		Validate: func(s string) error {
			_, err := locale.LoadLocation(s)
			return err
		},
	}
	tz, err := tzPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	cfg.Timezone = strings.TrimSpace(tz)

	// 3. Marker class.
	markerPrompt := promptui.Prompt{
		Label:   "Class that marks timestamp elements",
		Default: render.DefaultMarker,
		Validate: func(s string) error {
			_, err := render.New(nopFormatter{}, strings.TrimSpace(s))
			return err
		},
	}
	marker, err := markerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("marker: %w", err)
	}
	cfg.Marker = strings.TrimSpace(marker)

	// 4. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for `stamp build`",
		Default: cfg.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	cfg.OutputDir = outputDir

	// 5. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if excludeStr != "" {
		cfg.Exclude = append(append([]string{}, DefaultExcludes...), splitAndTrim(excludeStr)...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
