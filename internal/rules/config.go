package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Action names accepted in rule files.
const (
	ActionDrop         = "drop"
	ActionReplace      = "replace"
	ActionInsertBefore = "insert-before"
	ActionInsertAfter  = "insert-after"
)

// Rule describes what to do with lines matching a pattern.
type Rule struct {
	// Name is optional and only used in reports.
	Name string `json:"name,omitempty"`

	// Match is a Go regular expression tested against each line.
	Match string `json:"match"`

	// Action is one of drop, replace, insert-before, insert-after.
	Action string `json:"action"`

	// With is the replacement template for replace ($1 etc. expand groups).
	With string `json:"with,omitempty"`

	// Lines are inserted by insert-before and insert-after.
	Lines []string `json:"lines,omitempty"`

	// Limit caps how many lines this rule applies to. Zero means no limit.
	Limit int `json:"limit,omitempty"`
}

// Config holds all configuration options.
type Config struct {
	Rules []Rule `json:"rules"`

	// StopAfter stops the scan after this many lines matched a rule,
	// leaving the rest of the file untouched. Zero means scan everything.
	StopAfter int `json:"stop_after,omitempty"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".vscan.json"

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{}
}

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/vscan/rules.json if set, otherwise
// ~/.config/vscan/rules.json. Returns empty string if home directory cannot
// be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "vscan", "rules.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "vscan", "rules.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDir    string            // resolved working directory
	ConfigPath string            // -c/--config flag value
	Drops      []string          // --drop flag values, appended as drop rules
	StopAfter  int               // --stop-after flag value; zero means no override
	Env        map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence:
// 1. Defaults
// 2. Global user config (~/.config/vscan/rules.json or $XDG_CONFIG_HOME/vscan/rules.json)
// 3. Project config file at default location (.vscan.json, if exists)
// 4. Explicit config file via ConfigPath (replaces 3, must exist)
// 5. CLI overrides.
//
// Rules accumulate in that order; StopAfter is taken from the last layer
// that sets it.
func LoadConfig(input LoadConfigInput) (Config, ConfigSources, error) {
	cfg := DefaultConfig()

	var sources ConfigSources

	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(input.WorkDir, input.ConfigPath)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	for _, pattern := range input.Drops {
		cfg.Rules = append(cfg.Rules, Rule{Name: "--drop", Match: pattern, Action: ActionDrop})
	}

	if input.StopAfter != 0 {
		cfg.StopAfter = input.StopAfter
	}

	validateErr := ValidateConfig(cfg)
	if validateErr != nil {
		return Config{}, ConfigSources{}, validateErr
	}

	return cfg, sources, nil
}

func loadGlobalConfig(env map[string]string) (Config, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return Config{}, "", nil
	}

	globalCfg, loaded, err := loadConfigFile(globalCfgPath, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return globalCfg, globalCfgPath, nil
}

// loadProjectConfig loads the project config file (.vscan.json) or an
// explicit config file.
func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	fileCfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return fileCfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files
// return zero config.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from config resolution
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, false, nil
	}

	cfg, parseErr := ParseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

// ParseConfig parses a JSONC (JSON with comments and trailing commas)
// config document.
func ParseConfig(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return cfg, nil
}

// FormatConfig renders cfg as indented JSON.
func FormatConfig(cfg Config) (string, error) {
	if cfg.Rules == nil {
		cfg.Rules = []Rule{}
	}

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting config: %w", err)
	}

	return string(out), nil
}

func mergeConfig(base, overlay Config) Config {
	base.Rules = append(base.Rules, overlay.Rules...)

	if overlay.StopAfter != 0 {
		base.StopAfter = overlay.StopAfter
	}

	return base
}

// ValidateConfig reports the first invalid rule in cfg.
func ValidateConfig(cfg Config) error {
	_, err := Compile(cfg)

	return err
}
