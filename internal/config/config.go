package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"nordify/internal/errors"
	"nordify/pkg/types"
)

// Config represents the application configuration structure.
// It defines browsing, rendering, preview, watch, history and logging settings.
type Config struct {
	Browse struct {
		StartDir string `yaml:"start_dir" toml:"start_dir"` // Empty means the user's home
	} `yaml:"browse" toml:"browse"`
	Transform struct {
		DefaultMode  string `yaml:"default_mode" toml:"default_mode"`   // default, creative or knn
		DefaultK     int    `yaml:"default_k" toml:"default_k"`         // Neighbor count for knn (1-255)
		OutputSuffix string `yaml:"output_suffix" toml:"output_suffix"` // Appended to the suggested filename
	} `yaml:"transform" toml:"transform"`
	Preview struct {
		StagingPrefix string `yaml:"staging_prefix" toml:"staging_prefix"` // Temp directory name prefix
		SuffixLength  int    `yaml:"suffix_length" toml:"suffix_length"`   // Random characters per preview name
		MaxDimension  int    `yaml:"max_dimension" toml:"max_dimension"`   // Longest preview side, 0 for full size
	} `yaml:"preview" toml:"preview"`
	Watch struct {
		Enabled    bool `yaml:"enabled" toml:"enabled"`         // Refresh the listing when the directory changes
		IntervalMS int  `yaml:"interval_ms" toml:"interval_ms"` // How often front ends check for changes
	} `yaml:"watch" toml:"watch"`
	History struct {
		Enabled bool   `yaml:"enabled" toml:"enabled"` // Record visited directories
		Path    string `yaml:"path" toml:"path"`       // SQLite database file
		Limit   int    `yaml:"limit" toml:"limit"`     // Entries shown by history views
	} `yaml:"history" toml:"history"`
	Logging struct {
		Level string `yaml:"level" toml:"level"` // debug, info, warn or error
		JSON  bool   `yaml:"json" toml:"json"`   // One JSON object per line
		File  string `yaml:"file" toml:"file"`   // Interactive front ends log here
	} `yaml:"logging" toml:"logging"`
	Theme struct {
		Name     string `yaml:"name" toml:"name"`         // Theme name (nord, snowstorm, monochrome)
		Primary  string `yaml:"primary" toml:"primary"`   // Primary color for branding
		Success  string `yaml:"success" toml:"success"`   // Success message color
		Warning  string `yaml:"warning" toml:"warning"`   // Warning message color
		Error    string `yaml:"error" toml:"error"`       // Error message color
		Info     string `yaml:"info" toml:"info"`         // Informational message color
		Emphasis string `yaml:"emphasis" toml:"emphasis"` // Emphasis color for text that should stand out
		Border   string `yaml:"border" toml:"border"`     // Border color for frames
	} `yaml:"theme" toml:"theme"`
}

// Dir returns ~/.config/nordify.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nordify"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/nordify/config.yaml).
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, errors.NewConfigError("cannot locate home directory", "", errors.ConfigNotFound, err)
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
// Files ending in .toml are parsed as TOML, everything else as YAML.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.fillTheme()
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	// Decoding over the defaults keeps them for every field the file leaves out
	if isTOML(path) {
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	cfg.fillTheme()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Browse.StartDir = ""

	cfg.Transform.DefaultMode = types.Default.String()
	cfg.Transform.DefaultK = int(types.DefaultK)
	cfg.Transform.OutputSuffix = "_nordified"

	cfg.Preview.StagingPrefix = "nordify-"
	cfg.Preview.SuffixLength = 3
	cfg.Preview.MaxDimension = 0

	cfg.Watch.Enabled = true
	cfg.Watch.IntervalMS = 1000

	cfg.History.Enabled = true
	cfg.History.Path = "~/.config/nordify/history.db"
	cfg.History.Limit = 20

	cfg.Logging.Level = "info"
	cfg.Logging.JSON = false
	cfg.Logging.File = "~/.config/nordify/nordify.log"

	// Colors are filled from the theme name once the file has been read
	cfg.Theme.Name = "nord"

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return errors.Wrap(err, "failed to marshal config")
		}
		data = buf.Bytes()
	} else {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config")
		}
		data = out
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewFileError("failed to write config file", path, errors.FileAccessDenied, err)
	}

	return nil
}

func invalid(param, msg string) error {
	return errors.NewConfigError(msg, param, errors.InvalidConfig, nil)
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return invalid("", "nil config")
	}

	if _, err := types.ParseMode(c.Transform.DefaultMode); err != nil {
		return errors.NewConfigError("unknown mode", "transform.default_mode", errors.InvalidConfig, err)
	}
	if c.Transform.DefaultK < 1 || c.Transform.DefaultK > 255 {
		return invalid("transform.default_k", "k must be between 1 and 255")
	}
	if strings.ContainsRune(c.Transform.OutputSuffix, '/') || strings.ContainsRune(c.Transform.OutputSuffix, os.PathSeparator) {
		return invalid("transform.output_suffix", "suffix cannot contain a path separator")
	}

	if c.Preview.SuffixLength < 1 || c.Preview.SuffixLength > 16 {
		return invalid("preview.suffix_length", "suffix length must be between 1 and 16")
	}
	if c.Preview.MaxDimension < 0 {
		return invalid("preview.max_dimension", "max dimension must be >= 0")
	}

	if c.Watch.Enabled && c.Watch.IntervalMS < 100 {
		return invalid("watch.interval_ms", "watch interval must be >= 100ms")
	}

	if c.History.Enabled && c.History.Path == "" {
		return invalid("history.path", "history path is required when history is enabled")
	}
	if c.History.Limit < 0 {
		return invalid("history.limit", "history limit must be >= 0")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return invalid("logging.level", "unknown log level")
	}

	if c.Browse.StartDir != "" {
		info, err := os.Stat(ExpandHome(c.Browse.StartDir))
		if err != nil {
			return errors.NewConfigError("start directory is not accessible", "browse.start_dir", errors.InvalidConfig, err)
		}
		if !info.IsDir() {
			return invalid("browse.start_dir", "start directory is not a directory")
		}
	}

	return nil
}

// Mode returns the configured default mode, falling back to Default.
func (c *Config) Mode() types.Mode {
	m, err := types.ParseMode(c.Transform.DefaultMode)
	if err != nil {
		return types.Default
	}
	return m
}

// K returns the configured default neighbor count.
func (c *Config) K() uint8 {
	if c.Transform.DefaultK < 1 || c.Transform.DefaultK > 255 {
		return types.DefaultK
	}
	return uint8(c.Transform.DefaultK)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// New creates a new configuration instance with default values.
func New() *Config {
	cfg := defaultConfig()
	cfg.fillTheme()
	return cfg
}

// NewTestConfig creates a configuration for tests: everything rooted in dir,
// watcher and history off.
func NewTestConfig(dir string) *Config {
	cfg := New()
	cfg.Browse.StartDir = dir
	cfg.Watch.Enabled = false
	cfg.History.Enabled = false
	cfg.History.Path = filepath.Join(dir, "history.db")
	cfg.Logging.File = ""
	return cfg
}

// GetTheme returns a predefined theme by name.
// If the theme doesn't exist, returns the nord theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"nord": {
			"primary":  "#88C0D0", // Frost
			"success":  "#A3BE8C", // Aurora green
			"warning":  "#EBCB8B", // Aurora yellow
			"error":    "#BF616A", // Aurora red
			"info":     "#81A1C1", // Frost blue
			"emphasis": "#B48EAD", // Aurora purple
			"border":   "#4C566A", // Polar night
		},
		"snowstorm": {
			"primary":  "#5E81AC",
			"success":  "#A3BE8C",
			"warning":  "#D08770",
			"error":    "#BF616A",
			"info":     "#5E81AC",
			"emphasis": "#B48EAD",
			"border":   "#D8DEE9",
		},
		"monochrome": {
			"primary":  "245", // Light Grey
			"success":  "252", // White
			"warning":  "241", // Medium Grey
			"error":    "232", // Black
			"info":     "248", // Grey
			"emphasis": "255", // Bright White
			"border":   "245", // Light Grey
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["nord"]
}

// ApplyTheme sets the theme colors from a predefined theme.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// fillTheme sets every color the configuration leaves empty from the named theme.
func (c *Config) fillTheme() {
	theme := GetTheme(c.Theme.Name)
	fill := func(field *string, key string) {
		if *field == "" {
			*field = theme[key]
		}
	}
	fill(&c.Theme.Primary, "primary")
	fill(&c.Theme.Success, "success")
	fill(&c.Theme.Warning, "warning")
	fill(&c.Theme.Error, "error")
	fill(&c.Theme.Info, "info")
	fill(&c.Theme.Emphasis, "emphasis")
	fill(&c.Theme.Border, "border")
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"nord", "snowstorm", "monochrome"}
}
