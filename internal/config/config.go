package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/BurntSushi/toml"
)

// RepoFileName is the per-repository override file, looked up in the
// repository root.
const RepoFileName = ".gitmsg.toml"

// Config is the flattened, effective configuration for one generation
// request. It is built once per invocation and never mutated afterwards.
type Config struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	// Language selects the prompt's instruction language: "en" or "zh".
	Language string `json:"language"`

	IncludeOnlyStaged bool   `json:"includeOnlyStaged"`
	MaxChangedFiles   int    `json:"maxChangedFiles"`
	MaxDiffBytes      int    `json:"maxDiffBytes"`
	TruncateDiff      bool   `json:"truncateDiff"`
	RuleTemplate      string `json:"ruleTemplate,omitempty"`
	AdditionalRules   string `json:"additionalRules,omitempty"`
	SystemPrompt      string `json:"systemPrompt,omitempty"`

	CommandTimeoutMs int `json:"commandTimeoutMs"`
	MaxOutputBytes   int `json:"maxOutputBytes"`

	Format  string        `json:"format"`
	Cache   CacheConfig   `json:"cache"`
	Privacy PrivacyConfig `json:"privacy"`
}

// CacheConfig controls caching of generated messages.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls secret redaction of diff content.
type PrivacyConfig struct {
	RedactSecrets bool `json:"redactSecrets"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:         "anthropic",
		Model:            "claude-sonnet-4-20250514",
		Language:         "en",
		MaxChangedFiles:  20,
		MaxDiffBytes:     100000,
		TruncateDiff:     true,
		CommandTimeoutMs: 10000,
		MaxOutputBytes:   10 << 20,
		Format:           "text",
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for gitmsg.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitmsg"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "gitmsg"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "gitmsg"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "gitmsg"), nil
	default:
		return filepath.Join(home, ".config", "gitmsg"), nil
	}
}

// ConfigPath returns the full path to the user config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Save writes the config to the user config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by layering: defaults <- user file <-
// repo file <- env <- overrides. The overrides map comes from CLI flags;
// only explicitly set values should be present. repoRoot may be empty when
// no repository has been discovered yet.
func Load(repoRoot string, overrides map[string]string) (Config, error) {
	cfg := Default()

	if err := applyUserFile(&cfg); err != nil {
		return Config{}, err
	}
	applyRepoFile(&cfg, repoRoot)
	applyEnv(&cfg)
	applyOverrides(&cfg, overrides)
	clamp(&cfg)

	return cfg, nil
}

// applyUserFile unmarshals the user config file over cfg, so absent keys
// keep their defaults and present keys (including false booleans) win.
func applyUserFile(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// LoadFile reads only the user config file, without env, repo, or flag
// layers. Used by config editing commands so a save round-trips cleanly.
func LoadFile() (Config, error) {
	cfg := Default()
	if err := applyUserFile(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// repoOverrides is the subset of configuration a repository may pin in its
// own .gitmsg.toml. Pointer fields distinguish absent keys from zero values.
type repoOverrides struct {
	Provider          *string `toml:"provider"`
	Model             *string `toml:"model"`
	Language          *string `toml:"language"`
	IncludeOnlyStaged *bool   `toml:"includeOnlyStaged"`
	MaxChangedFiles   *int    `toml:"maxChangedFiles"`
	MaxDiffBytes      *int    `toml:"maxDiffBytes"`
	TruncateDiff      *bool   `toml:"truncateDiff"`
	RuleTemplate      *string `toml:"ruleTemplate"`
	AdditionalRules   *string `toml:"additionalRules"`
	SystemPrompt      *string `toml:"systemPrompt"`
}

// applyRepoFile layers .gitmsg.toml from the repository root onto cfg.
// A missing or malformed file is ignored: repo-level config degrades to
// nothing rather than blocking generation.
func applyRepoFile(cfg *Config, repoRoot string) {
	if repoRoot == "" {
		return
	}
	data, err := os.ReadFile(filepath.Join(repoRoot, RepoFileName))
	if err != nil {
		return
	}
	var ro repoOverrides
	if err := toml.Unmarshal(data, &ro); err != nil {
		return
	}
	if ro.Provider != nil {
		cfg.Provider = *ro.Provider
	}
	if ro.Model != nil {
		cfg.Model = *ro.Model
	}
	if ro.Language != nil {
		cfg.Language = *ro.Language
	}
	if ro.IncludeOnlyStaged != nil {
		cfg.IncludeOnlyStaged = *ro.IncludeOnlyStaged
	}
	if ro.MaxChangedFiles != nil {
		cfg.MaxChangedFiles = *ro.MaxChangedFiles
	}
	if ro.MaxDiffBytes != nil {
		cfg.MaxDiffBytes = *ro.MaxDiffBytes
	}
	if ro.TruncateDiff != nil {
		cfg.TruncateDiff = *ro.TruncateDiff
	}
	if ro.RuleTemplate != nil {
		cfg.RuleTemplate = *ro.RuleTemplate
	}
	if ro.AdditionalRules != nil {
		cfg.AdditionalRules = *ro.AdditionalRules
	}
	if ro.SystemPrompt != nil {
		cfg.SystemPrompt = *ro.SystemPrompt
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GITMSG_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("GITMSG_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("GITMSG_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("GITMSG_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("GITMSG_COMMAND_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CommandTimeoutMs = n
		}
	}
}

func applyOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.Provider = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["language"]; ok && v != "" {
		cfg.Language = v
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["staged"]; ok && v == "true" {
		cfg.IncludeOnlyStaged = true
	}
	if v, ok := overrides["noTruncate"]; ok && v == "true" {
		cfg.TruncateDiff = false
	}
	if v, ok := overrides["maxChangedFiles"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxChangedFiles = n
		}
	}
	if v, ok := overrides["maxDiffBytes"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDiffBytes = n
		}
	}
	if v, ok := overrides["additionalRules"]; ok && v != "" {
		cfg.AdditionalRules = v
	}
}

// clamp enforces the lower bounds the collector relies on. The core never
// sees an unbounded or nonsensical budget.
func clamp(cfg *Config) {
	if cfg.MaxDiffBytes < 4096 {
		cfg.MaxDiffBytes = 4096
	}
	if cfg.MaxChangedFiles < 1 {
		cfg.MaxChangedFiles = 1
	}
	if cfg.CommandTimeoutMs < 1000 {
		cfg.CommandTimeoutMs = 1000
	}
	if cfg.MaxOutputBytes < 64<<10 {
		cfg.MaxOutputBytes = 64 << 10
	}
	if cfg.Language != "zh" {
		cfg.Language = "en"
	}
}

// SetField sets a single config field by key name. Returns an error if the
// key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "language":
		cfg.Language = value
	case "format":
		cfg.Format = value
	case "includeOnlyStaged":
		cfg.IncludeOnlyStaged = value == "true"
	case "truncateDiff":
		cfg.TruncateDiff = value != "false"
	case "maxChangedFiles":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxChangedFiles must be an integer: %w", err)
		}
		cfg.MaxChangedFiles = n
	case "maxDiffBytes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxDiffBytes must be an integer: %w", err)
		}
		cfg.MaxDiffBytes = n
	case "commandTimeoutMs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("commandTimeoutMs must be an integer: %w", err)
		}
		cfg.CommandTimeoutMs = n
	case "ruleTemplate":
		cfg.RuleTemplate = value
	case "additionalRules":
		cfg.AdditionalRules = value
	case "systemPrompt":
		cfg.SystemPrompt = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
