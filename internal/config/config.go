// Package config handles treehouse configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/henri123lemoine/treehouse/internal/debug"
)

// Config represents treehouse configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Open    OpenConfig    `toml:"open"`
	Delete  DeleteConfig  `toml:"delete"`
	UI      UIConfig      `toml:"ui"`
	Keys    KeysConfig    `toml:"keys"`
	Log     LogConfig     `toml:"log"`
}

// GeneralConfig contains general settings.
type GeneralConfig struct {
	// Initial global root for new worktrees. Empty means derive it from the
	// first selected project.
	WorktreeRoot string `toml:"worktree_root"`

	// Base branch prefilled in the create form (empty = repository HEAD)
	DefaultBaseBranch string `toml:"default_base_branch"`
}

// OpenConfig contains settings for opening worktree folders.
type OpenConfig struct {
	// Command to run when opening a folder (empty = platform opener)
	// Template variables: {path}, {name}
	Command string `toml:"command"`
}

// DeleteConfig contains settings for worktree removal.
type DeleteConfig struct {
	// Delete the worktree's branch after removing it
	DeleteBranch bool `toml:"delete_branch"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// Color theme: auto, latte, frappe, macchiato, mocha
	Theme string `toml:"theme"`
}

// KeysConfig contains keybinding settings.
type KeysConfig struct {
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Home    string `toml:"home"`
	End     string `toml:"end"`
	Open    string `toml:"open"`
	New     string `toml:"new"`
	Delete  string `toml:"delete"`
	Project string `toml:"project"`
	Root    string `toml:"root"`
	Refresh string `toml:"refresh"`
	Filter  string `toml:"filter"`
	Dismiss string `toml:"dismiss"`
	Help    string `toml:"help"`
	Quit    string `toml:"quit"`
}

// LogConfig contains debug log settings.
type LogConfig struct {
	Enabled    bool   `toml:"enabled"`
	File       string `toml:"file"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

var (
	validThemes    = []string{"auto", "latte", "frappe", "macchiato", "mocha"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validVars      = []string{"{path}", "{name}"}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			WorktreeRoot:      "",
			DefaultBaseBranch: "",
		},
		Open: OpenConfig{
			Command: "",
		},
		Delete: DeleteConfig{
			DeleteBranch: true,
		},
		UI: UIConfig{
			Theme: "auto",
		},
		Keys: KeysConfig{
			Up:      "up,k",
			Down:    "down,j",
			Home:    "home,g",
			End:     "end,G",
			Open:    "enter",
			New:     "n",
			Delete:  "d",
			Project: "p",
			Root:    "R",
			Refresh: "r",
			Filter:  "/",
			Dismiss: "x",
			Help:    "?",
			Quit:    "q,ctrl+c",
		},
		Log: LogConfig{
			Enabled:    false,
			File:       DefaultLogPath(),
			Level:      "debug",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses ~/.config/treehouse/config.toml (XDG style) on all Unix systems.
func ConfigPath() string {
	// Respect XDG_CONFIG_HOME if set
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "treehouse", "config.toml")
	}
	// Default to ~/.config on Unix (including macOS)
	home := os.Getenv("HOME")
	if home != "" {
		return filepath.Join(home, ".config", "treehouse", "config.toml")
	}
	// Fallback to os.UserConfigDir() for Windows
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "treehouse", "config.toml")
	}
	return filepath.Join(configDir, "treehouse", "config.toml")
}

// DefaultLogPath returns the default debug log location.
func DefaultLogPath() string {
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, "treehouse", "debug.log")
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "treehouse-debug.log")
	}
	return filepath.Join(cacheDir, "treehouse", "debug.log")
}

// IsFirstRun returns true if no config file exists at path.
func IsFirstRun(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

// Load loads configuration from the config file.
func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, use defaults
			return cfg, nil
		}
		return nil, err
	}

	// go-toml/v2 only overwrites fields present in the file, so defaults
	// (including booleans) survive.
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Encode writes cfg as TOML to w.
func Encode(w io.Writer, cfg *Config) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(cfg)
}

// CreateDefaultConfigFile writes a commented default config file to path,
// creating parent directories.
func CreateDefaultConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(generateDefaultConfigContent()), 0644)
}

// DebugOptions maps the log section onto debug logger options.
func (c *Config) DebugOptions() debug.Options {
	return debug.Options{
		Path:       c.Log.File,
		Level:      c.Log.Level,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}

// generateDefaultConfigContent generates a commented config file.
func generateDefaultConfigContent() string {
	var b strings.Builder
	cfg := DefaultConfig()

	b.WriteString("# Treehouse Configuration\n\n")

	b.WriteString("[general]\n")
	b.WriteString("# Directory new worktrees are created under.\n")
	b.WriteString("# Empty: the parent directory of the first project you select.\n")
	b.WriteString("# worktree_root = \"~/worktrees\"\n")
	b.WriteString("# Base branch prefilled in the create form (empty = current HEAD)\n")
	fmt.Fprintf(&b, "default_base_branch = %q\n\n", cfg.General.DefaultBaseBranch)

	b.WriteString("[open]\n")
	b.WriteString("# Command used to open a worktree folder (platform opener if not set)\n")
	b.WriteString("# Template variables: {path}, {name}\n")
	b.WriteString("# Variables are shell-escaped for safety.\n")
	b.WriteString("# command = \"code {path}\"\n\n")

	b.WriteString("[delete]\n")
	b.WriteString("# Delete the branch together with its worktree\n")
	fmt.Fprintf(&b, "delete_branch = %v\n\n", cfg.Delete.DeleteBranch)

	b.WriteString("[ui]\n")
	b.WriteString("# Color theme: \"auto\", \"latte\", \"frappe\", \"macchiato\", or \"mocha\"\n")
	fmt.Fprintf(&b, "theme = %q\n\n", cfg.UI.Theme)

	b.WriteString("[keys]\n")
	b.WriteString("# Keybindings (comma-separated for multiple keys)\n")
	fmt.Fprintf(&b, "# up = %q\n", cfg.Keys.Up)
	fmt.Fprintf(&b, "# down = %q\n", cfg.Keys.Down)
	fmt.Fprintf(&b, "# open = %q\n", cfg.Keys.Open)
	fmt.Fprintf(&b, "# new = %q\n", cfg.Keys.New)
	fmt.Fprintf(&b, "# delete = %q\n", cfg.Keys.Delete)
	fmt.Fprintf(&b, "# project = %q\n", cfg.Keys.Project)
	fmt.Fprintf(&b, "# root = %q\n", cfg.Keys.Root)
	fmt.Fprintf(&b, "# refresh = %q\n", cfg.Keys.Refresh)
	fmt.Fprintf(&b, "# filter = %q\n", cfg.Keys.Filter)
	fmt.Fprintf(&b, "# dismiss = %q\n", cfg.Keys.Dismiss)
	fmt.Fprintf(&b, "# help = %q\n", cfg.Keys.Help)
	fmt.Fprintf(&b, "# quit = %q\n\n", cfg.Keys.Quit)

	b.WriteString("[log]\n")
	b.WriteString("# Structured debug log (also enabled by --debug)\n")
	fmt.Fprintf(&b, "enabled = %v\n", cfg.Log.Enabled)
	fmt.Fprintf(&b, "# file = %q\n", cfg.Log.File)
	b.WriteString("# Level: \"debug\", \"info\", \"warn\", or \"error\"\n")
	fmt.Fprintf(&b, "level = %q\n", cfg.Log.Level)
	fmt.Fprintf(&b, "max_size_mb = %d\n", cfg.Log.MaxSizeMB)
	fmt.Fprintf(&b, "max_backups = %d\n", cfg.Log.MaxBackups)
	fmt.Fprintf(&b, "max_age_days = %d\n", cfg.Log.MaxAgeDays)

	return b.String()
}

// Validate validates the configuration and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	for _, v := range extractTemplateVars(c.Open.Command) {
		if !slices.Contains(validVars, v) {
			warnings = append(warnings, fmt.Sprintf("Unknown template variable in open.command: %s", v))
		}
	}

	if c.UI.Theme != "" && !slices.Contains(validThemes, c.UI.Theme) {
		warnings = append(warnings, fmt.Sprintf("Invalid value for ui.theme: %s (expected %s)", c.UI.Theme, strings.Join(validThemes, ", ")))
	}

	if c.Log.Level != "" && !slices.Contains(validLogLevels, c.Log.Level) {
		warnings = append(warnings, fmt.Sprintf("Invalid value for log.level: %s (expected %s)", c.Log.Level, strings.Join(validLogLevels, ", ")))
	}

	if c.Log.Enabled && c.Log.File == "" {
		warnings = append(warnings, "log.enabled is set but log.file is empty")
	}

	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		warnings = append(warnings, "log rotation settings must not be negative")
	}

	if c.General.WorktreeRoot != "" && !filepath.IsAbs(ExpandHome(c.General.WorktreeRoot)) {
		warnings = append(warnings, fmt.Sprintf("general.worktree_root should be an absolute path: %s", c.General.WorktreeRoot))
	}

	return warnings
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

var templateVarRe = regexp.MustCompile(`\{[^}]+\}`)

// extractTemplateVars extracts template variables from a string.
func extractTemplateVars(s string) []string {
	return templateVarRe.FindAllString(s, -1)
}
