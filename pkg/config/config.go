package config

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	Discord    DiscordConfig    `mapstructure:"discord"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Threads    ThreadsConfig    `mapstructure:"threads"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type DiscordConfig struct {
	Token          string `mapstructure:"token"`
	DefaultGuildID string `mapstructure:"default_guild_id"`
}

type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

type ThreadsConfig struct {
	MaxAgeDays int `mapstructure:"max_age_days"`
}

type OpenRouterConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
	SiteURL  string `mapstructure:"site_url"`
	SiteName string `mapstructure:"site_name"`
}

type LoggingConfig struct {
	Debug bool `mapstructure:"debug"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.dir", ".cache")
	v.SetDefault("threads.max_age_days", 0)
	v.SetDefault("openrouter.model", "deepseek/deepseek-r1-distill-qwen-32b:free")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("logging.debug", false)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file; a missing file is fine, everything can come from
	// defaults and the environment.
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Get environment variable overrides
	if token := v.GetString("DISCORD_TOKEN"); token != "" {
		config.Discord.Token = token
	}

	if guildID := v.GetString("DEFAULT_GUILD_ID"); guildID != "" {
		config.Discord.DefaultGuildID = guildID
	}

	if apiKey := v.GetString("OPENROUTER_API_KEY"); apiKey != "" {
		config.OpenRouter.APIKey = apiKey
	}

	return &config, nil
}
