package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/witch-agent/vibe-coder/internal/prompt"
)

const (
	EnvPrefix     = "VIBE_CODER"
	DefaultSystem = "You are a creative UI/UX designer and full-stack developer. Generate detailed, professional prompts for building web applications. Output ONLY the prompt, no explanations."
)

type Config struct {
	LLM    LLMConfig    `mapstructure:"llm"`
	Relay  RelayConfig  `mapstructure:"relay"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

type LLMConfig struct {
	URL         string  `mapstructure:"url"`
	Model       string  `mapstructure:"model"`
	Token       string  `mapstructure:"token"`
	Type        string  `mapstructure:"type"`
	System      string  `mapstructure:"system"`
	Version     string  `mapstructure:"version"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type RelayConfig struct {
	AllowOrigin       string `mapstructure:"allow_origin"`
	DefaultStyle      string `mapstructure:"default_style"`
	PassthroughStatus bool   `mapstructure:"passthrough_status"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every key on v so that AutomaticEnv can see them
// during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("llm.type", "anthropics")
	v.SetDefault("llm.url", "https://api.minimax.io/anthropic")
	v.SetDefault("llm.model", "MiniMax-M2.5")
	v.SetDefault("llm.token", "")
	v.SetDefault("llm.system", DefaultSystem)
	v.SetDefault("llm.version", "")
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.temperature", 0)

	v.SetDefault("relay.allow_origin", "*")
	v.SetDefault("relay.default_style", prompt.StyleHacker.String())
	v.SetDefault("relay.passthrough_status", true)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.path", "/api/generate")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// BindEnv wires VIBE_CODER_* variables onto v. The upstream token also
// accepts MINIMAX_API_KEY.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v.BindEnv("llm.token", EnvPrefix+"_LLM_TOKEN", "MINIMAX_API_KEY")
}

// Init prepares the global viper instance: defaults, environment and an
// optional config file. A missing default config file is not an error.
func Init(configFile string) error {
	SetDefaults(viper.GetViper())
	if err := BindEnv(viper.GetViper()); err != nil {
		return fmt.Errorf("bind env: %w", err)
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("vibe-coder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/vibe-coder")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.LLM.Token = strings.TrimSpace(cfg.LLM.Token)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.LLM.Type {
	case "openai", "anthropics", "anthropic", "gemini":
	default:
		return fmt.Errorf("invalid llm.type: %s", c.LLM.Type)
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("invalid llm.max_tokens: %d", c.LLM.MaxTokens)
	}
	if _, err := prompt.ParseStyle(c.Relay.DefaultStyle); err != nil {
		return fmt.Errorf("invalid relay.default_style: %w", err)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format: %s", c.Log.Format)
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		return fmt.Errorf("invalid server.path: %q must start with /", c.Server.Path)
	}
	return nil
}

// DefaultStyle returns the parsed relay.default_style. Validate has already
// rejected unknown names, so the fallback is only reached for zero Configs.
func (c Config) DefaultStyle() prompt.Style {
	style, err := prompt.ParseStyle(c.Relay.DefaultStyle)
	if err != nil {
		return prompt.StyleHacker
	}
	return style
}
