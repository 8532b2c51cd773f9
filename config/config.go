package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const minJWTSecretLength = 32

type Config struct {
	ServerPort int
	JWTSecret  string

	// FrontendURL is the public base URL of the website; the
	// email-confirmation endpoint redirects there.
	FrontendURL string
	// BackendURL is the public base URL of this API, embedded in
	// emailed confirmation links.
	BackendURL string

	Database DatabaseConfig
	Email    EmailConfig
	Storage  StorageConfig
	Broker   BrokerConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

// EmailConfig configures the transactional email provider.
type EmailConfig struct {
	APIBaseURL string
	APIKey     string
	// Sender is the From address; the provider default applies when empty.
	Sender string
	// AdminAddress receives "pending review" notifications.
	AdminAddress string
}

// StorageConfig selects and configures the object storage backend.
type StorageConfig struct {
	// Backend is "minio" or "gcs".
	Backend string
	// PublicBaseURL is the base under which uploaded objects are
	// publicly reachable. Defaults to the MinIO endpoint + bucket.
	PublicBaseURL string
	Minio         MinioConfig
	GCS           GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	ProjectID       string
	Bucket          string
	CredentialsFile string
}

// BrokerConfig configures the optional lifecycle-event broker.
// Publishing is disabled when Backend is empty.
type BrokerConfig struct {
	// Backend is "", "rabbitmq" or "pubsub".
	Backend  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL          string
	QueueDurable bool
}

type PubSubConfig struct {
	ProjectID       string
	CredentialsFile string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	return Config{
		ServerPort:  getEnvInt("SERVER_PORT", 3001),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		BackendURL:  getEnv("BACKEND_URL", ""),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "dorothy"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "dorothy_db"),
			UseSSL:   getEnvBool("DB_USE_SSL", false),
		},
		Email: EmailConfig{
			APIBaseURL:   getEnv("EMAIL_API_URL", "https://api.resend.com"),
			APIKey:       getEnv("EMAIL_API_KEY", ""),
			Sender:       getEnv("EMAIL_SENDER", ""),
			AdminAddress: getEnv("ADMIN_EMAIL", ""),
		},
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", "minio"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_URL", ""),
			Minio: MinioConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "dorothy-media"),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			GCS: GCSConfig{
				ProjectID:       getEnv("GCS_PROJECT_ID", ""),
				Bucket:          getEnv("GCS_BUCKET", ""),
				CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
			},
		},
		Broker: BrokerConfig{
			Backend: getEnv("BROKER_BACKEND", ""),
			RabbitMQ: RabbitMQConfig{
				URL:          getEnv("RABBITMQ_URL", ""),
				QueueDurable: getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			},
			PubSub: PubSubConfig{
				ProjectID:       getEnv("PUBSUB_PROJECT_ID", ""),
				CredentialsFile: getEnv("PUBSUB_CREDENTIALS_FILE", ""),
			},
		},
	}
}

// Validate checks the settings the server cannot run without.
// Called once at startup so misconfiguration fails fast.
func (c Config) Validate() error {
	var problems []string

	if len(strings.TrimSpace(c.JWTSecret)) < minJWTSecretLength {
		problems = append(problems, fmt.Sprintf("JWT_SECRET must be at least %d characters", minJWTSecretLength))
	}
	if strings.TrimSpace(c.FrontendURL) == "" {
		problems = append(problems, "FRONTEND_URL is required")
	}
	if strings.TrimSpace(c.BackendURL) == "" {
		problems = append(problems, "BACKEND_URL is required")
	}
	if strings.TrimSpace(c.Email.APIKey) == "" {
		problems = append(problems, "EMAIL_API_KEY is required")
	}
	if strings.TrimSpace(c.Email.AdminAddress) == "" {
		problems = append(problems, "ADMIN_EMAIL is required")
	}

	switch c.Storage.Backend {
	case "minio", "gcs":
	default:
		problems = append(problems, fmt.Sprintf("unknown STORAGE_BACKEND %q", c.Storage.Backend))
	}

	switch c.Broker.Backend {
	case "", "rabbitmq", "pubsub":
	default:
		problems = append(problems, fmt.Sprintf("unknown BROKER_BACKEND %q", c.Broker.Backend))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return strings.EqualFold(valueStr, "true") || valueStr == "1"
	}
	return defaultValue
}
