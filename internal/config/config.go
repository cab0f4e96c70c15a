package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort    string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       string
	SessionTTLMin string

	KafkaBrokers           string
	KafkaClientID          string
	KafkaTopicPartitions   string
	KafkaReplicationFactor string
	EventDrivenEnabled     string

	// PlatformName and PlatformVersion describe the storefront this
	// guard is deployed against; the version gate compares the version
	// against the required minimum at startup.
	PlatformName    string
	PlatformVersion string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:    getEnv("APP_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "coupon_guard"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),
		SessionTTLMin: getEnv("SESSION_TTL_MINUTES", "60"),

		KafkaBrokers:           getEnv("KAFKA_BROKERS", "kafka:9092"),
		KafkaClientID:          getEnv("KAFKA_CLIENT_ID", "coupon-guard"),
		KafkaTopicPartitions:   getEnv("KAFKA_TOPIC_PARTITIONS", "3"),
		KafkaReplicationFactor: getEnv("KAFKA_REPLICATION_FACTOR", "1"),
		EventDrivenEnabled:     getEnv("EVENT_DRIVEN_ENABLED", "true"),

		PlatformName:    getEnv("PLATFORM_NAME", "Storefront"),
		PlatformVersion: getEnv("PLATFORM_VERSION", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) RedisDatabase() int {
	parsed, err := strconv.Atoi(c.RedisDB)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

func (c *Config) SessionTTLMinutes() int {
	return parseInt(c.SessionTTLMin, 60)
}

func (c *Config) TopicPartitions() int {
	return parseInt(c.KafkaTopicPartitions, 3)
}

func (c *Config) ReplicationFactor() int16 {
	value := parseInt(c.KafkaReplicationFactor, 1)
	return int16(value)
}

func parseInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
