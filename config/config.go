// Package config loads issuecost settings from YAML files and resolves credentials.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/spiffcs/issuecost/internal/constants"
	"github.com/spiffcs/issuecost/internal/cost"
	"gopkg.in/yaml.v3"
)

// LLM providers
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Config represents the application configuration
type Config struct {
	DefaultFormat string `yaml:"default_format,omitempty"`

	Server  *ServerOverrides `yaml:"server,omitempty"`
	LLM     *LLMOverrides    `yaml:"llm,omitempty"`
	Costs   *CostOverrides   `yaml:"costs,omitempty"`
	GitHub  *GitHubOverrides `yaml:"github,omitempty"`
	Secrets *SecretRefs      `yaml:"secrets,omitempty"`
}

// ServerOverrides customizes the HTTP server
type ServerOverrides struct {
	Addr              *string        `yaml:"addr,omitempty"`
	RequestTimeout    *time.Duration `yaml:"request_timeout,omitempty"`
	ReadHeaderTimeout *time.Duration `yaml:"read_header_timeout,omitempty"`
	LogFormat         *string        `yaml:"log_format,omitempty"`
}

// LLMOverrides selects and tunes the classification model
type LLMOverrides struct {
	Provider      *string        `yaml:"provider,omitempty"`
	Model         *string        `yaml:"model,omitempty"`
	MaxTokens     *int           `yaml:"max_tokens,omitempty"`
	ClassifyDelay *time.Duration `yaml:"classify_delay,omitempty"`
}

// CostOverrides replaces the dollar band of individual tiers
type CostOverrides struct {
	Low    *cost.Band `yaml:"low,omitempty"`
	Medium *cost.Band `yaml:"medium,omitempty"`
	High   *cost.Band `yaml:"high,omitempty"`
}

// GitHubOverrides points the client at a different API root
type GitHubOverrides struct {
	APIURL *string `yaml:"api_url,omitempty"`
}

// SecretRefs names Secret Manager entries used when a credential is not in the environment.
type SecretRefs struct {
	GitHubToken string `yaml:"github_token,omitempty"`
	LLMAPIKey   string `yaml:"llm_api_key,omitempty"`
}

// IsEmpty reports whether no secret references are configured.
func (s *SecretRefs) IsEmpty() bool {
	return s == nil || (s.GitHubToken == "" && s.LLMAPIKey == "")
}

// Settings is the fully resolved configuration
type Settings struct {
	DefaultFormat string

	ListenAddr        string
	RequestTimeout    time.Duration
	ReadHeaderTimeout time.Duration
	LogFormat         string

	LLMProvider   string
	LLMModel      string
	MaxTokens     int
	ClassifyDelay time.Duration

	CostBands cost.Bands

	GitHubAPIURL string
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		DefaultFormat:     "table",
		ListenAddr:        constants.DefaultListenAddr,
		RequestTimeout:    constants.DefaultRequestTimeout,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		LogFormat:         "text",
		LLMProvider:       ProviderAnthropic,
		LLMModel:          constants.DefaultAnthropicModel,
		MaxTokens:         constants.DefaultMaxTokens,
		ClassifyDelay:     constants.ClassifyDelay,
		CostBands:         cost.DefaultBands(),
	}
}

// Settings returns settings with user overrides merged with defaults
func (c *Config) Settings() Settings {
	s := DefaultSettings()

	if c.DefaultFormat != "" {
		s.DefaultFormat = c.DefaultFormat
	}

	if srv := c.Server; srv != nil {
		if srv.Addr != nil {
			s.ListenAddr = *srv.Addr
		}
		if srv.RequestTimeout != nil {
			s.RequestTimeout = *srv.RequestTimeout
		}
		if srv.ReadHeaderTimeout != nil {
			s.ReadHeaderTimeout = *srv.ReadHeaderTimeout
		}
		if srv.LogFormat != nil {
			s.LogFormat = *srv.LogFormat
		}
	}

	if llm := c.LLM; llm != nil {
		if llm.Provider != nil {
			s.LLMProvider = strings.ToLower(*llm.Provider)
			// The default model belongs to the default provider
			if s.LLMProvider == ProviderGemini {
				s.LLMModel = constants.DefaultGeminiModel
			}
		}
		if llm.Model != nil {
			s.LLMModel = *llm.Model
		}
		if llm.MaxTokens != nil {
			s.MaxTokens = *llm.MaxTokens
		}
		if llm.ClassifyDelay != nil {
			s.ClassifyDelay = *llm.ClassifyDelay
		}
	}

	if costs := c.Costs; costs != nil {
		if costs.Low != nil {
			s.CostBands.Low = *costs.Low
		}
		if costs.Medium != nil {
			s.CostBands.Medium = *costs.Medium
		}
		if costs.High != nil {
			s.CostBands.High = *costs.High
		}
	}

	if c.GitHub != nil && c.GitHub.APIURL != nil {
		s.GitHubAPIURL = *c.GitHub.APIURL
	}

	return s
}

// Validate checks the resolved settings
func (s Settings) Validate() error {
	switch s.LLMProvider {
	case ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("unknown llm provider %q: must be %s or %s", s.LLMProvider, ProviderAnthropic, ProviderGemini)
	}
	if s.MaxTokens <= 0 {
		return fmt.Errorf("llm max_tokens must be positive, got %d", s.MaxTokens)
	}
	if s.ClassifyDelay < 0 {
		return fmt.Errorf("llm classify_delay must not be negative, got %s", s.ClassifyDelay)
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("server request_timeout must be positive, got %s", s.RequestTimeout)
	}
	return s.CostBands.Validate()
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".issuecost"
	}
	return filepath.Join(configDir, "issuecost")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".issuecost.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from XDG config directory, then merges
// any local .issuecost.yaml config on top (local values take precedence).
func Load() (*Config, error) {
	return LoadFrom(ConfigPath(), LocalConfigPath())
}

// LoadFrom loads and merges the config files at the given paths. Missing files are skipped.
func LoadFrom(globalPath, localPath string) (*Config, error) {
	cfg := &Config{}

	global, err := readConfigFile(globalPath)
	if err != nil {
		return nil, fmt.Errorf("global config: %w", err)
	}
	if global != nil {
		cfg = global
	}

	local, err := readConfigFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("local config: %w", err)
	}
	if local != nil {
		cfg = mergeConfig(cfg, local)
	}

	return cfg, nil
}

func readConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{
		DefaultFormat: global.DefaultFormat,
	}
	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	}

	result.Server = mergeServer(global.Server, local.Server)
	result.LLM = mergeLLM(global.LLM, local.LLM)
	result.Costs = mergeCosts(global.Costs, local.Costs)
	result.GitHub = mergeGitHub(global.GitHub, local.GitHub)
	result.Secrets = mergeSecrets(global.Secrets, local.Secrets)

	return result
}

func mergeServer(global, local *ServerOverrides) *ServerOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &ServerOverrides{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		result.Addr = pick(result.Addr, local.Addr)
		result.RequestTimeout = pick(result.RequestTimeout, local.RequestTimeout)
		result.ReadHeaderTimeout = pick(result.ReadHeaderTimeout, local.ReadHeaderTimeout)
		result.LogFormat = pick(result.LogFormat, local.LogFormat)
	}
	return result
}

func mergeLLM(global, local *LLMOverrides) *LLMOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &LLMOverrides{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		result.Provider = pick(result.Provider, local.Provider)
		result.Model = pick(result.Model, local.Model)
		result.MaxTokens = pick(result.MaxTokens, local.MaxTokens)
		result.ClassifyDelay = pick(result.ClassifyDelay, local.ClassifyDelay)
	}
	return result
}

func mergeCosts(global, local *CostOverrides) *CostOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &CostOverrides{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		result.Low = pick(result.Low, local.Low)
		result.Medium = pick(result.Medium, local.Medium)
		result.High = pick(result.High, local.High)
	}
	return result
}

func mergeGitHub(global, local *GitHubOverrides) *GitHubOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &GitHubOverrides{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		result.APIURL = pick(result.APIURL, local.APIURL)
	}
	return result
}

func mergeSecrets(global, local *SecretRefs) *SecretRefs {
	if global == nil && local == nil {
		return nil
	}
	result := &SecretRefs{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		if local.GitHubToken != "" {
			result.GitHubToken = local.GitHubToken
		}
		if local.LLMAPIKey != "" {
			result.LLMAPIKey = local.LLMAPIKey
		}
	}
	return result
}

// pick returns override when it is set, otherwise base.
func pick[T any](base, override *T) *T {
	if override != nil {
		return override
	}
	return base
}

// DefaultConfig returns a fully populated config with all default values.
// This is useful for generating a complete config file template.
func DefaultConfig() *Config {
	s := DefaultSettings()

	return &Config{
		DefaultFormat: s.DefaultFormat,
		Server: &ServerOverrides{
			Addr:              &s.ListenAddr,
			RequestTimeout:    &s.RequestTimeout,
			ReadHeaderTimeout: &s.ReadHeaderTimeout,
			LogFormat:         &s.LogFormat,
		},
		LLM: &LLMOverrides{
			Provider:      &s.LLMProvider,
			Model:         &s.LLMModel,
			MaxTokens:     &s.MaxTokens,
			ClassifyDelay: &s.ClassifyDelay,
		},
		Costs: &CostOverrides{
			Low:    &s.CostBands.Low,
			Medium: &s.CostBands.Medium,
			High:   &s.CostBands.High,
		},
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# issuecost configuration file
# See: issuecost config defaults  (for all available options)

# Output format for 'issuecost analyze': table, json or csv
default_format: table

# llm:
#   provider: anthropic     # or gemini
#   model: claude-3-5-sonnet-20241022
#   classify_delay: 500ms

# Dollar band per complexity tier; the estimate is the band midpoint
# costs:
#   low: {min: 100, max: 300}
#   medium: {min: 300, max: 600}
#   high: {min: 600, max: 1000}

# server:
#   addr: ":8080"
#   request_timeout: 5m
#   log_format: json

# Secret Manager fallbacks when GITHUB_TOKEN / ANTHROPIC_API_KEY are unset
# secrets:
#   github_token: projects/my-project/secrets/github-token
#   llm_api_key: anthropic-api-key
`
}

// SaveTo atomically writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader([]byte(content))); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
