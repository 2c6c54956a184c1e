package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"time"

	"github.com/dshills/coral/internal/github"
	"github.com/dshills/coral/internal/review"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "json", "markdown", "sarif", "summary"}

// Config represents the coral configuration.
type Config struct {
	Format     string           `mapstructure:"format" yaml:"format"`
	FailUnder  int              `mapstructure:"failUnder" yaml:"failUnder"`
	Progress   bool             `mapstructure:"progress" yaml:"progress"`
	GitHub     GitHubConfig     `mapstructure:"github" yaml:"github"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds" yaml:"thresholds"`
}

// GitHubConfig controls API access.
type GitHubConfig struct {
	Token          string `mapstructure:"token" yaml:"token,omitempty"`
	APIURL         string `mapstructure:"apiUrl" yaml:"apiUrl"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds" yaml:"timeoutSeconds"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// ThresholdsConfig holds the rule limits.
type ThresholdsConfig struct {
	LargePR         int `mapstructure:"largePr" yaml:"largePr"`
	LargeFile       int `mapstructure:"largeFile" yaml:"largeFile"`
	OpenIssues      int `mapstructure:"openIssues" yaml:"openIssues"`
	MinBearerLength int `mapstructure:"minBearerLength" yaml:"minBearerLength"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	th := review.DefaultThresholds()
	return Config{
		Format:    "text",
		FailUnder: 0,
		Progress:  true,
		GitHub: GitHubConfig{
			APIURL:         "https://api.github.com",
			TimeoutSeconds: 30,
		},
		Server: ServerConfig{Addr: ":8080"},
		Thresholds: ThresholdsConfig{
			LargePR:         th.LargePR,
			LargeFile:       th.LargeFile,
			OpenIssues:      th.OpenIssues,
			MinBearerLength: th.MinBearerLength,
		},
	}
}

// keys maps each settable key to the environment variables that feed it,
// first match wins.
var keys = []struct {
	name string
	env  []string
}{
	{name: "format", env: []string{"CORAL_FORMAT"}},
	{name: "failUnder", env: []string{"CORAL_FAIL_UNDER"}},
	{name: "progress", env: []string{"CORAL_PROGRESS"}},
	{name: "github.token", env: []string{"CORAL_GITHUB_TOKEN", "GITHUB_TOKEN"}},
	{name: "github.apiUrl", env: []string{"CORAL_GITHUB_API_URL", "GITHUB_API_URL"}},
	{name: "github.timeoutSeconds", env: []string{"CORAL_GITHUB_TIMEOUT_SECONDS"}},
	{name: "server.addr", env: []string{"CORAL_SERVER_ADDR"}},
	{name: "thresholds.largePr", env: []string{"CORAL_THRESHOLDS_LARGE_PR"}},
	{name: "thresholds.largeFile", env: []string{"CORAL_THRESHOLDS_LARGE_FILE"}},
	{name: "thresholds.openIssues", env: []string{"CORAL_THRESHOLDS_OPEN_ISSUES"}},
	{name: "thresholds.minBearerLength", env: []string{"CORAL_THRESHOLDS_MIN_BEARER_LENGTH"}},
}

// Keys returns the names accepted by SetField.
func Keys() []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.name
	}
	return out
}

// ConfigDir returns the platform-appropriate config directory for coral.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "coral"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "coral"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "coral"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "coral"), nil
	default:
		return filepath.Join(home, ".config", "coral"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadFile loads the config file over the defaults, ignoring the
// environment. Returns Default() and nil error if the file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file. The file may hold a token so
// it is written owner-only.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-empty values are applied).
func Load(overrides map[string]string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	for _, k := range keys {
		if err := v.BindEnv(append([]string{k.name}, k.env...)...); err != nil {
			return Config{}, fmt.Errorf("binding env for %s: %w", k.name, err)
		}
	}

	for key, value := range overrides {
		if value == "" {
			continue
		}
		if !slices.Contains(Keys(), key) {
			return Config{}, fmt.Errorf("unknown config key: %s", key)
		}
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("format", d.Format)
	v.SetDefault("failUnder", d.FailUnder)
	v.SetDefault("progress", d.Progress)
	v.SetDefault("github.token", d.GitHub.Token)
	v.SetDefault("github.apiUrl", d.GitHub.APIURL)
	v.SetDefault("github.timeoutSeconds", d.GitHub.TimeoutSeconds)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("thresholds.largePr", d.Thresholds.LargePR)
	v.SetDefault("thresholds.largeFile", d.Thresholds.LargeFile)
	v.SetDefault("thresholds.openIssues", d.Thresholds.OpenIssues)
	v.SetDefault("thresholds.minBearerLength", d.Thresholds.MinBearerLength)
}

// Validate reports fields that cannot be used.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(Formats, c.Format) {
		errs = append(errs, fmt.Errorf("format must be one of %v, got %q", Formats, c.Format))
	}
	if c.FailUnder < 0 || c.FailUnder > 100 {
		errs = append(errs, fmt.Errorf("failUnder must be in [0,100], got %d", c.FailUnder))
	}
	if c.GitHub.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("github.timeoutSeconds must be >= 0, got %d", c.GitHub.TimeoutSeconds))
	}
	if err := c.ReviewThresholds().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ReviewThresholds returns the rule limits.
func (c Config) ReviewThresholds() review.Thresholds {
	return review.Thresholds{
		LargePR:         c.Thresholds.LargePR,
		LargeFile:       c.Thresholds.LargeFile,
		OpenIssues:      c.Thresholds.OpenIssues,
		MinBearerLength: c.Thresholds.MinBearerLength,
	}
}

// GitHubOptions returns the client options.
func (c Config) GitHubOptions() github.Options {
	return github.Options{
		Token:   c.GitHub.Token,
		APIURL:  c.GitHub.APIURL,
		Timeout: time.Duration(c.GitHub.TimeoutSeconds) * time.Second,
	}
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer: %w", key, err)
		}
		return n, nil
	}

	var err error
	switch key {
	case "format":
		if !slices.Contains(Formats, value) {
			return fmt.Errorf("format must be one of %v, got %q", Formats, value)
		}
		cfg.Format = value
	case "failUnder":
		n, aerr := atoi()
		if aerr != nil {
			return aerr
		}
		if n < 0 || n > 100 {
			return fmt.Errorf("failUnder must be in [0,100], got %d", n)
		}
		cfg.FailUnder = n
	case "progress":
		b, perr := strconv.ParseBool(value)
		if perr != nil {
			return fmt.Errorf("progress must be true or false: %w", perr)
		}
		cfg.Progress = b
	case "github.token":
		cfg.GitHub.Token = value
	case "github.apiUrl":
		cfg.GitHub.APIURL = value
	case "github.timeoutSeconds":
		cfg.GitHub.TimeoutSeconds, err = atoi()
	case "server.addr":
		cfg.Server.Addr = value
	case "thresholds.largePr":
		cfg.Thresholds.LargePR, err = atoi()
	case "thresholds.largeFile":
		cfg.Thresholds.LargeFile, err = atoi()
	case "thresholds.openIssues":
		cfg.Thresholds.OpenIssues, err = atoi()
	case "thresholds.minBearerLength":
		cfg.Thresholds.MinBearerLength, err = atoi()
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return err
}
