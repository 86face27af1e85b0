package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	ErrMissingTableName = errors.New("TABLE_NAME environment variable not set")
	ErrMissingKafka     = errors.New("KAFKA_BROKERS, KAFKA_TOPIC and KAFKA_GROUP_ID must be set")
)

// Config holds everything read from the environment at process start.
type Config struct {
	TableName        string
	AppendTimestamp  bool
	LogLevel         string
	DynamoDBEndpoint string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
}

// Load reads a .env file if one exists, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // a missing .env is fine, real env vars still apply

	cfg := &Config{
		TableName:        os.Getenv("TABLE_NAME"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		DynamoDBEndpoint: os.Getenv("DYNAMODB_ENDPOINT"),
		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:       os.Getenv("KAFKA_TOPIC"),
		KafkaGroupID:     os.Getenv("KAFKA_GROUP_ID"),
	}

	if cfg.TableName == "" {
		return nil, ErrMissingTableName
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if raw := os.Getenv("APPEND_TIMESTAMP"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid APPEND_TIMESTAMP %q: %w", raw, err)
		}
		cfg.AppendTimestamp = v
	}

	return cfg, nil
}

// ValidateKafka checks the settings only the Kafka consumer needs.
func (c *Config) ValidateKafka() error {
	if len(c.KafkaBrokers) == 0 || c.KafkaTopic == "" || c.KafkaGroupID == "" {
		return ErrMissingKafka
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
