package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"clickbreak/internal/core/model"
	"clickbreak/internal/platform"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	DisplayName string `yaml:"display_name"`
	ClickGoal   int    `yaml:"click_goal"`
}

// Store reads and writes user settings as YAML.
type Store struct {
	path string
}

// NewStore resolves the settings file inside the application's config directory.
func NewStore(appName string) (*Store, error) {
	configDir, err := platform.ConfigDir(appName)
	if err != nil {
		return nil, fmt.Errorf("resolve settings path: %w", err)
	}
	return NewStoreAt(filepath.Join(configDir, settingsFileName)), nil
}

// NewStoreAt uses an explicit settings file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the settings file location.
func (store *Store) Path() string {
	return store.path
}

// Load reads user settings.
// If the file does not exist, default settings are returned. On any other failure
// the defaults are returned together with the error.
func (store *Store) Load() (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// Save writes user settings.
func (store *Store) Save(settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	settings = settings.Normalized()
	serialized, err := yaml.Marshal(yamlSettings{
		DisplayName: settings.DisplayName,
		ClickGoal:   settings.ClickGoal,
	})
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(store.path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// applyYamlSettings keeps defaults for fields that are missing or out of range.
func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.DisplayName != "" {
		settings.DisplayName = fileData.DisplayName
	}
	if fileData.ClickGoal > 0 {
		settings.ClickGoal = fileData.ClickGoal
	}
	*settings = settings.Normalized()
}
