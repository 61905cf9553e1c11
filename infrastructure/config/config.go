package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Graph backend selection: "memory" or "dynamodb"
	GraphBackend string

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	IndexName     string // GSI1 - inbound edge traversal
	EventBusName  string // dead-letter surface for failed mutations

	// Lambda configuration
	IsLambda           bool
	LambdaFunctionName string

	// Event stream configuration
	NATSURL       string
	EventTopic    string
	ConsumerGroup string

	// Recommendation tuning
	MinRating    int
	SampleSize   int
	PerUserLimit int
	TopN         int

	// Logging and features
	LogLevel   string
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		GraphBackend:  getEnv("GRAPH_BACKEND", "memory"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", "videorec-graph"),
		IndexName:     getEnv("INDEX_NAME", "InboundEdgeIndex"),
		EventBusName:  getEnv("EVENT_BUS_NAME", ""),

		// Lambda configuration
		IsLambda:           getEnvBool("IS_LAMBDA", false),
		LambdaFunctionName: getEnv("AWS_LAMBDA_FUNCTION_NAME", ""),

		// Event stream configuration
		NATSURL:       getEnv("NATS_URL", ""),
		EventTopic:    getEnv("EVENT_TOPIC", "video-events"),
		ConsumerGroup: getEnv("CONSUMER_GROUP", "graph-mutator"),

		// Recommendation tuning
		MinRating:    getEnvInt("RECOMMEND_MIN_RATING", 3),
		SampleSize:   getEnvInt("RECOMMEND_SAMPLE_SIZE", 1000),
		PerUserLimit: getEnvInt("RECOMMEND_PER_USER_LIMIT", 5),
		TopN:         getEnvInt("RECOMMEND_TOP_N", 5),

		// Logging and features
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.GraphBackend != "memory" && c.GraphBackend != "dynamodb" {
		return fmt.Errorf("GRAPH_BACKEND must be \"memory\" or \"dynamodb\", got %q", c.GraphBackend)
	}
	if c.Environment == "production" {
		if c.GraphBackend == "dynamodb" && c.DynamoDBTable == "" {
			return fmt.Errorf("TABLE_NAME is required")
		}
	}
	if c.MinRating < 1 || c.MinRating > 5 {
		return fmt.Errorf("RECOMMEND_MIN_RATING must be within 1-5, got %d", c.MinRating)
	}
	if c.SampleSize <= 0 || c.PerUserLimit <= 0 || c.TopN <= 0 {
		return fmt.Errorf("recommendation limits must be positive")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
