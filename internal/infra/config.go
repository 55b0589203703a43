package infra

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the server configuration, read from the environment after an
// optional .env file.
type Config struct {
	Port        string
	AppEnv      string
	JWTSecret   []byte
	Postgres    PostgresConfig
	AIProvider  string
	AIModel     string
	ImageAPIURL string
	ImageAPIKey string
	ImageTTL    time.Duration
}

func LoadConfig() Config {
	_ = godotenv.Load()

	provider := getEnvWithDefault("AI_PROVIDER", "gemini")
	model := os.Getenv("GEMINI_MODEL")
	if provider == "openai" {
		model = os.Getenv("OPENAI_MODEL")
	}

	return Config{
		Port:      getEnvWithDefault("PORT", "8080"),
		AppEnv:    getEnvWithDefault("APP_ENV", "production"),
		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		Postgres: PostgresConfig{
			DSN:             os.Getenv("POSTGRES_URL"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Duration(getEnvInt("POSTGRES_CONN_MAX_LIFETIME_MIN", 30)) * time.Minute,
			AutoMigrate:     getEnvWithDefault("AUTO_MIGRATE", "true") == "true",
		},
		AIProvider:  provider,
		AIModel:     model,
		ImageAPIURL: os.Getenv("IMAGE_API_URL"),
		ImageAPIKey: os.Getenv("IMAGE_API_KEY"),
		ImageTTL:    time.Duration(getEnvInt("IMAGE_CACHE_TTL_MIN", 360)) * time.Minute,
	}
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
