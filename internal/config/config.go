// Package config loads the server's configuration from environment
// variables via cleanenv, following this codebase's usual
// Service/Logger/Metrics/Platform section layout.
package config

import (
	"fmt"
	"log"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full set of environment-supplied server settings.
type Config struct {
	Service struct {
		Name        string `env:"SERVICE_NAME" env-default:"codeu-chat"`
		Port        string `env:"SERVICE_PORT" env-default:"9090"`
		JournalDir  string `env:"JOURNAL_DIR" env-default:"data"`
		GeneratorID uint32 `env:"GENERATOR_ID" env-default:"1"`
	}
	Logger struct {
		Host string `env:"LOGGER_HOST" env-default:"localhost"`
		Port string `env:"LOGGER_PORT" env-default:"8080"`
	}
	Metrics struct {
		Host string `env:"METRICS_HOST" env-default:"localhost"`
		Port string `env:"METRICS_PORT" env-default:"8125"`
	}
	Platform struct {
		Env string `env:"PLATFORM_ENV" env-default:"local"`
	}
	Postgres struct {
		Host     string `env:"POSTGRES_HOST" env-default:"localhost"`
		Port     string `env:"POSTGRES_PORT" env-default:"5432"`
		User     string `env:"POSTGRES_USER" env-default:"postgres"`
		Password string `env:"POSTGRES_PASSWORD" env-default:""`
		Database string `env:"POSTGRES_DB" env-default:"codeu_chat"`
	}
	Kafka struct {
		Host            string `env:"KAFKA_HOST" env-default:"localhost"`
		Port            string `env:"KAFKA_PORT" env-default:"9092"`
		InboundTopic    string `env:"KAFKA_INBOUND_TOPIC" env-default:"codeu-chat-relay-in"`
		OutboundTopic   string `env:"KAFKA_OUTBOUND_TOPIC" env-default:"codeu-chat-relay-out"`
		ConsumerGroupID string `env:"KAFKA_CONSUMER_GROUP" env-default:"codeu-chat-relay"`
	}
	Relay struct {
		Secret string `env:"RELAY_SECRET" env-default:""`
	}
	AdminHTTP struct {
		Enabled bool `env:"ADMIN_HTTP_ENABLED" env-default:"true"`
	}
}

// MustLoad reads the environment into a Config, terminating the
// process on failure since a server cannot run without its
// configuration.
func MustLoad() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatal(fmt.Errorf("config: read env: %w", err))
	}
	return &cfg
}
