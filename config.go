package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".shopsync"

// Embedded configuration files
//
//go:embed config/settings.yaml
var defaultSettings string

//go:embed config/category-prompt.md
var categoryPrompt string

//go:embed config/keywords-prompt.md
var keywordsPrompt string

//go:embed config/content-prompt.md
var contentPrompt string

//go:embed config/title-retry-prompt.md
var titleRetryPrompt string

// AgentSettings holds per-agent model parameters.
type AgentSettings struct {
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// CategoryTone is one entry of the category tone guide: the writing voice and
// the suggested section headings for products in that category.
type CategoryTone struct {
	Voice    string   `yaml:"voice"`
	Sections []string `yaml:"sections"`
}

// LedgerSettings selects the uniqueness ledger backend.
type LedgerSettings struct {
	Backend     string `yaml:"backend"` // "file" or "memory"
	HandlesPath string `yaml:"handles_path"`
	TitlesPath  string `yaml:"titles_path"`
}

// Settings represents the YAML configuration structure.
type Settings struct {
	Store         string         `yaml:"store"`
	APIVersion    string         `yaml:"api_version"`
	ProcessingTag string         `yaml:"processing_tag"`
	PacingMS      int            `yaml:"pacing_ms"`
	WordCount     int            `yaml:"word_count"`
	Brand         string         `yaml:"brand"`
	BannedBrands  []string       `yaml:"banned_brands"`
	LogFile       string         `yaml:"log_file"`
	Ledger        LedgerSettings `yaml:"ledger"`
	Agents        struct {
		Classifier AgentSettings `yaml:"classifier"`
		Keywords   AgentSettings `yaml:"keywords"`
		Writer     AgentSettings `yaml:"writer"`
	} `yaml:"agents"`
	Categories map[string]CategoryTone `yaml:"categories"`
}

// CategoryNames returns the tone guide category names in stable order.
func (s *Settings) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tone returns the tone guide entry for a category, falling back to Default.
func (s *Settings) Tone(category string) CategoryTone {
	if tone, ok := s.Categories[category]; ok {
		return tone
	}
	return s.Categories["Default"]
}

// loadSettings loads settings from settingsPath, falling back to the embedded
// defaults when the file does not exist.
func loadSettings(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if os.IsNotExist(err) {
		data = []byte(defaultSettings)
	} else if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", settingsPath, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	applySettingsDefaults(&settings)
	return &settings, nil
}

// loadSettingsRequired loads settings from an explicitly given path, failing
// if the file does not exist.
func loadSettingsRequired(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", settingsPath, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	applySettingsDefaults(&settings)
	return &settings, nil
}

func applySettingsDefaults(settings *Settings) {
	if settings.APIVersion == "" {
		settings.APIVersion = "2025-07"
	}
	if settings.ProcessingTag == "" {
		settings.ProcessingTag = "dsers-new"
	}
	if settings.PacingMS <= 0 {
		settings.PacingMS = 500
	}
	if settings.WordCount <= 0 {
		settings.WordCount = 600
	}
	if settings.LogFile == "" {
		settings.LogFile = "product_update_log.csv"
	}
	if settings.Ledger.Backend == "" {
		settings.Ledger.Backend = "memory"
	}
	if settings.Ledger.HandlesPath == "" {
		settings.Ledger.HandlesPath = "used_handles.txt"
	}
	if settings.Ledger.TitlesPath == "" {
		settings.Ledger.TitlesPath = "used_titles.txt"
	}
	if settings.Categories == nil {
		settings.Categories = map[string]CategoryTone{}
	}
	if _, ok := settings.Categories["Default"]; !ok {
		settings.Categories["Default"] = CategoryTone{
			Voice:    "Friendly and persuasive product marketing tone",
			Sections: []string{"Benefits You'll Enjoy", "Why This Product Stands Out", "Perfect For", "Specifications"},
		}
	}
}

// getConfigPath returns the path to a config file in the .shopsync directory.
func getConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// ensureConfigExists creates the config directory and writes the default
// settings.yaml on first run so users have a file to customize.
func ensureConfigExists() error {
	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	settingsFile := getConfigPath("settings.yaml")
	if _, err := os.Stat(settingsFile); os.IsNotExist(err) {
		if err := os.WriteFile(settingsFile, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("writing settings.yaml: %w", err)
		}
	}

	return nil
}
