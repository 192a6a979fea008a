// Package config loads and saves futureline configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all futureline configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Gemini     GeminiConfig     `toml:"gemini"`
	OpenAI     OpenAIConfig     `toml:"openai"`
	Storage    StorageConfig    `toml:"storage"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	PlanPath       string `toml:"plan_path,omitempty"`
	DefaultHorizon int    `toml:"default_horizon"`
}

// GeminiConfig holds Gemini image/scene generation settings.
type GeminiConfig struct {
	APIKey            string `toml:"api_key,omitempty"`
	TextModel         string `toml:"text_model"`
	ImageModel        string `toml:"image_model"`
	ImageSize         string `toml:"image_size"`
	AspectRatio       string `toml:"aspect_ratio"`
	RequestTimeoutSec int    `toml:"request_timeout_sec"`
}

// OpenAIConfig holds settings for the day-text and photo-analysis provider.
type OpenAIConfig struct {
	APIKey            string `toml:"api_key,omitempty"`
	TextModel         string `toml:"text_model"`
	VisionModel       string `toml:"vision_model"`
	RequestTimeoutSec int    `toml:"request_timeout_sec"`
}

// StorageConfig bounds the persisted plan size.
type StorageConfig struct {
	MaxPlanKB int `toml:"max_plan_kb"`
	MaxPhotos int `toml:"max_photos"`
}

// ServerConfig holds `futureline serve` settings.
type ServerConfig struct {
	Addr         string `toml:"addr,omitempty"`
	EventsBuffer int    `toml:"events_buffer,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultHorizon: 20,
		},
		Gemini: GeminiConfig{
			TextModel:         "gemini-3-pro-preview",
			ImageModel:        "gemini-3-pro-image-preview",
			ImageSize:         "1K",
			AspectRatio:       "3:2",
			RequestTimeoutSec: 240,
		},
		OpenAI: OpenAIConfig{
			TextModel:         "gpt-4o-mini",
			VisionModel:       "gpt-4o",
			RequestTimeoutSec: 60,
		},
		Storage: StorageConfig{
			MaxPlanKB: 4096,
			MaxPhotos: 3,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "futureline")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "futureline")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the plan file and
// the media cache.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "futureline")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "futureline")
}

// PlanPath returns the plan file location, honoring the config override.
func PlanPath(cfg Config) string {
	if cfg.General.PlanPath != "" {
		return cfg.General.PlanPath
	}
	return filepath.Join(DataDir(), "plan.json")
}

// MediaCachePath returns the sqlite database holding generated images.
func MediaCachePath() string {
	return filepath.Join(DataDir(), "media.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetGeminiKey returns the Gemini API key from env var or config, in that order.
func GetGeminiKey(cfg Config) string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return cfg.Gemini.APIKey
}

// GetOpenAIKey returns the OpenAI API key from env var or config, in that order.
func GetOpenAIKey(cfg Config) string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return cfg.OpenAI.APIKey
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
