package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Joaovenera/wms-sub000/internal/ratelimit"
)

// Config holds the service settings. Values come from an optional YAML
// file named by CONFIG_FILE, with environment variables taking
// precedence over both the file and the defaults.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
	} `yaml:"kafka"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
	RateLimit struct {
		Base int `yaml:"base"`
	} `yaml:"rateLimit"`
}

func loadConfig() (*Config, error) {
	config := &Config{}
	config.Server.Addr = ":8080"
	config.RateLimit.Base = ratelimit.DefaultBaseLimit

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.Server.Addr = getEnv("SERVER_ADDR", config.Server.Addr)
	config.Mongo.URI = getEnv("MONGODB_URI", config.Mongo.URI)
	config.Mongo.Database = getEnv("MONGODB_DATABASE", config.Mongo.Database)
	config.Redis.Addr = getEnv("REDIS_ADDR", config.Redis.Addr)
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		config.Kafka.Brokers = []string{brokers}
	}
	config.RateLimit.Base = getEnvInt("RATE_LIMIT_BASE", config.RateLimit.Base)

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
