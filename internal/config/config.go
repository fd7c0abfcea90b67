package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	LogFormat      string
	MetricsEnabled bool

	// Document store
	StoreBackend              string
	ContactsCollection        string
	PendingContactsCollection string
	StoreTimeout              time.Duration
	AWSRegion                 string
	AWSAccessKeyID            string
	AWSSecretAccessKey        string
	AWSEndpointOverride       string
	DynamoKeyAttribute        string
	FirestoreProjectID        string
	GoogleCredentialsFile     string
	MongoURI                  string
	MongoDatabase             string
	DatabaseURL               string

	// Endpoint secrets, each resolved from a fixed list of candidate variables.
	CallContextToken    string
	PendingContactToken string
	LookupToken         string

	// Rate limiting for the public submission endpoint
	RateLimitPerMinute int
	RateLimitBurst     int
	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool

	CORSAllowedOrigins []string
}

// Token candidates, in priority order. The first non-empty variable wins.
var (
	CallContextTokenVars    = []string{"CALL_CONTEXT_TOKEN", "VOICE_AGENT_WEBHOOK_SECRET", "WEBHOOK_SECRET"}
	PendingContactTokenVars = []string{"PENDING_CONTACT_TOKEN", "FORM_SUBMIT_TOKEN", "WEBHOOK_SECRET"}
	LookupTokenVars         = []string{"LOOKUP_TOKEN", "TOOL_TOKEN", "WEBHOOK_SECRET"}
)

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),

		StoreBackend:              strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", "memory"))),
		ContactsCollection:        getEnv("CONTACTS_COLLECTION", "contacts"),
		PendingContactsCollection: getEnv("PENDING_CONTACTS_COLLECTION", "pending_contacts"),
		StoreTimeout:              getEnvAsDuration("STORE_TIMEOUT", 10*time.Second),
		AWSRegion:                 getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:            getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:        getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride:       getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		DynamoKeyAttribute:        getEnv("DYNAMODB_KEY_ATTRIBUTE", "id"),
		FirestoreProjectID:        firstEnv("FIRESTORE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT"),
		GoogleCredentialsFile:     getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		MongoURI:                  getEnv("MONGODB_URI", ""),
		MongoDatabase:             getEnv("MONGODB_DATABASE", "contact_bridge"),
		DatabaseURL:               getEnv("DATABASE_URL", ""),

		CallContextToken:    firstEnv(CallContextTokenVars...),
		PendingContactToken: firstEnv(PendingContactTokenVars...),
		LookupToken:         firstEnv(LookupTokenVars...),

		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 0),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
	}
}

// Validate reports settings the selected store backend cannot run without.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreBackend {
	case "memory":
	case "dynamodb":
		if c.AWSRegion == "" {
			errs = append(errs, errors.New("AWS_REGION is required for the dynamodb backend"))
		}
	case "firestore":
		if c.FirestoreProjectID == "" {
			errs = append(errs, errors.New("FIRESTORE_PROJECT_ID is required for the firestore backend"))
		}
	case "mongodb":
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongodb backend"))
		}
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}
	if c.ContactsCollection == "" || c.PendingContactsCollection == "" {
		errs = append(errs, errors.New("collection names cannot be empty"))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE cannot be negative"))
	}
	return errors.Join(errs...)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// firstEnv returns the first non-empty (after trimming) variable among keys.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
