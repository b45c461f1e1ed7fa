/**
 * @description
 * This file handles the configuration management for the intent-service.
 * It uses the Viper library to provide a robust way of reading settings from
 * environment variables or a local .env file.
 *
 * @dependencies
 * - github.com/spf13/viper: A powerful configuration library for Go applications.
 */
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerPort              string `mapstructure:"SERVER_PORT"`
	ChainrailsAPIURL        string `mapstructure:"CHAINRAILS_API_URL"`
	ChainrailsAPIKey        string `mapstructure:"CHAINRAILS_API_KEY"`
	ChainrailsWebhookSecret string `mapstructure:"CHAINRAILS_WEBHOOK_SECRET"`
	RabbitMQURL             string `mapstructure:"RABBITMQ_URL"`
	IntentRefreshSchedule   string `mapstructure:"INTENT_REFRESH_SCHEDULE"`
	CORSAllowedOrigins      string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// AllowedOrigins returns the CORS origin list, empty when unset.
func (c Config) AllowedOrigins() []string {
	if strings.TrimSpace(c.CORSAllowedOrigins) == "" {
		return nil
	}
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind env vars explicitly
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("CHAINRAILS_API_URL")
	_ = viper.BindEnv("CHAINRAILS_API_KEY")
	_ = viper.BindEnv("CHAINRAILS_WEBHOOK_SECRET")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("INTENT_REFRESH_SCHEDULE")
	_ = viper.BindEnv("CORS_ALLOWED_ORIGINS")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("INTENT_REFRESH_SCHEDULE", "@every 1m")

	// Read the config file if it exists.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if config.ChainrailsAPIURL == "" {
		return Config{}, fmt.Errorf("CHAINRAILS_API_URL is required")
	}
	if config.RabbitMQURL == "" {
		return Config{}, fmt.Errorf("RABBITMQ_URL is required")
	}

	return config, nil
}
