package server

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds environment-level server settings. The economics document is
// a separate concern loaded through internal/config.
type Config struct {
	Port           string        `mapstructure:"PORT"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
}

// LoadConfig reads server settings from .env and the environment.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REQUEST_TIMEOUT", "60s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
