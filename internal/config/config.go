package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration. It is constructed once at
// startup and passed by reference; nothing in the codebase reads
// configuration lazily from module-level state.
type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	Auth struct {
		AccessSecret string `yaml:"accessSecret"`
	} `yaml:"auth"`

	Database struct {
		SQLitePath string `yaml:"sqlitePath"`
	} `yaml:"database"`

	OpenAI struct {
		APIKey           string   `yaml:"apiKey"`
		ChatModel        string   `yaml:"chatModel"`
		SummaryModel     string   `yaml:"summaryModel"`
		TitleModel       string   `yaml:"titleModel"`
		AllowedModels    []string `yaml:"allowedModels"`
		SummaryMaxTokens int64    `yaml:"summaryMaxTokens"`
	} `yaml:"openai"`

	Engine struct {
		// MessagesLimit is K: the recent-window size and the
		// summarization threshold.
		MessagesLimit int `yaml:"messagesLimit"`
	} `yaml:"engine"`

	Storage struct {
		Driver       string `yaml:"driver"` // "s3" or "local"
		Bucket       string `yaml:"bucket"`
		Region       string `yaml:"region"`
		Endpoint     string `yaml:"endpoint"`
		AccessKey    string `yaml:"accessKey"`
		SecretKey    string `yaml:"secretKey"`
		PublicURL    string `yaml:"publicURL"`
		LocalDir     string `yaml:"localDir"`
		LocalBaseURL string `yaml:"localBaseURL"`
	} `yaml:"storage"`

	Security struct {
		AllowedOrigins string `yaml:"allowedOrigins"`
	} `yaml:"security"`
}

// Load reads a YAML config file with environment variable expansion.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes with environment
// variable expansion, then applies defaults.
func LoadFromBytes(data []byte) (*Config, error) {
	var c Config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 3000
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "./data/lumen.db"
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-5.2"
	}
	if c.OpenAI.SummaryModel == "" {
		c.OpenAI.SummaryModel = "gpt-4.1-nano"
	}
	if c.OpenAI.TitleModel == "" {
		c.OpenAI.TitleModel = c.OpenAI.ChatModel
	}
	if len(c.OpenAI.AllowedModels) == 0 {
		c.OpenAI.AllowedModels = []string{"gpt-5.2", "gpt-4.1", "gpt-4.1-mini"}
	}
	if c.OpenAI.SummaryMaxTokens == 0 {
		c.OpenAI.SummaryMaxTokens = 500
	}
	if c.Engine.MessagesLimit == 0 {
		c.Engine.MessagesLimit = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "local"
	}
	if c.Storage.LocalDir == "" {
		c.Storage.LocalDir = "./data/chat-images"
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Auth.AccessSecret) == "" {
		return fmt.Errorf("auth.accessSecret is required")
	}
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return fmt.Errorf("openai.apiKey is required")
	}
	if c.Storage.Driver == "s3" && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required for the s3 driver")
	}
	return nil
}

// ModelAllowed reports whether the client-requested model is on the
// allow list. Unknown models fall back to the default chat model.
func (c *Config) ModelAllowed(model string) bool {
	for _, m := range c.OpenAI.AllowedModels {
		if m == model {
			return true
		}
	}
	return false
}
