package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// FontsDirEnv is consulted when fonts_dir is left empty.
const FontsDirEnv = "ASSLINT_FONTS_DIR"

// Config is the user configuration. CLI flags override file values.
type Config struct {
	FontsDir  string   `toml:"fonts_dir"`
	Language  string   `toml:"language" validate:"omitempty,bcp47_language_tag"`
	Thorough  bool     `toml:"thorough"`
	Format    string   `toml:"format" validate:"oneof=text table json yaml"`
	Template  string   `toml:"template"`
	Color     string   `toml:"color" validate:"oneof=auto always never"`
	LogLevel  string   `toml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string   `toml:"log_format" validate:"oneof=console json"`
	Jobs      int      `toml:"jobs" validate:"gte=1,lte=64"`
	Disable   []string `toml:"disable" validate:"dive,required"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Language:  "en-US",
		Format:    "text",
		Color:     "auto",
		LogLevel:  "info",
		LogFormat: "console",
		Jobs:      4,
	}
}

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/asslint/config.toml")
}

// Load locates, parses, normalizes and validates a configuration file. A
// missing file is not an error: defaults are returned and exists is false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("asslint.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.Language = strings.ReplaceAll(strings.TrimSpace(c.Language), "_", "-")

	if strings.TrimSpace(c.FontsDir) == "" {
		c.FontsDir = os.Getenv(FontsDirEnv)
	}
	fontsDir, err := expandPath(strings.TrimSpace(c.FontsDir))
	if err != nil {
		return fmt.Errorf("fonts_dir: %w", err)
	}
	c.FontsDir = fontsDir

	disable := c.Disable[:0]
	for _, name := range c.Disable {
		if name = strings.TrimSpace(name); name != "" {
			disable = append(disable, name)
		}
	}
	c.Disable = disable
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for flags.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// Sample returns the annotated sample configuration.
func Sample() string { return sampleConfig }

// CreateSample writes the sample configuration to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}
