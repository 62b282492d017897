package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type ProviderConfig struct {
	Name          string
	Model         string
	APIKey        string
	MonthlyBudget float64
}

type Config struct {
	DataDir     string
	DBPath      string
	PresetDir   string
	ProjectName string
	Environment string

	Anthropic ProviderConfig
	ZhipuAI   ProviderConfig
	OpenAI    ProviderConfig
}

func New() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	dataDir := getEnv("CREWFORGE_DATA_DIR", filepath.Join(homeDir, ".crewforge"))

	c := &Config{
		DataDir:     dataDir,
		DBPath:      filepath.Join(dataDir, "crewforge.db"),
		PresetDir:   filepath.Join(dataDir, "presets"),
		ProjectName: getEnv("PROJECT_NAME", "ai-crew-builder"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Anthropic: ProviderConfig{
			Name:          "anthropic",
			Model:         getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
			APIKey:        os.Getenv("ANTHROPIC_API_KEY"),
			MonthlyBudget: getEnvFloat("MONTHLY_BUDGET_CLAUDE", 500),
		},
		ZhipuAI: ProviderConfig{
			Name:          "zhipuai",
			Model:         getEnv("ZHIPUAI_MODEL", "glm-4.6"),
			APIKey:        os.Getenv("ZHIPUAI_API_KEY"),
			MonthlyBudget: getEnvFloat("MONTHLY_BUDGET_ZHIPUAI", 300),
		},
		OpenAI: ProviderConfig{
			Name:          "openai",
			Model:         getEnv("OPENAI_MODEL", "gpt-4-turbo-preview"),
			APIKey:        os.Getenv("OPENAI_API_KEY"),
			MonthlyBudget: getEnvFloat("MONTHLY_BUDGET_OPENAI", 1000),
		},
	}

	return c, nil
}

func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(c.PresetDir, 0755); err != nil {
		return err
	}
	return nil
}

// Providers returns the provider configurations keyed by name.
func (c *Config) Providers() map[string]ProviderConfig {
	return map[string]ProviderConfig{
		"anthropic": c.Anthropic,
		"zhipuai":   c.ZhipuAI,
		"openai":    c.OpenAI,
	}
}

// ValidateCredentials reports missing API keys for the named providers.
// The message tells the user which env var to set; no provider call is
// attempted when this fails.
func (c *Config) ValidateCredentials(names ...string) error {
	envVars := map[string]string{
		"anthropic": "ANTHROPIC_API_KEY",
		"zhipuai":   "ZHIPUAI_API_KEY",
		"openai":    "OPENAI_API_KEY",
	}
	providers := c.Providers()

	for _, name := range names {
		pc, ok := providers[name]
		if !ok {
			return fmt.Errorf("unknown provider %q", name)
		}
		if pc.APIKey == "" {
			return fmt.Errorf("missing API key for %s: set %s in your environment or .env file", name, envVars[name])
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
