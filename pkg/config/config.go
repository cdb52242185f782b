package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything read from the environment at startup.
type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	FirebaseAPIKey          string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	GeminiAPIKey            string
}

// Load reads configuration from the environment, preloading a .env file
// when one is present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseAPIKey:          getEnv("FIREBASE_API_KEY", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "comunidade"),
		GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
	}
}

// Remote reports whether remote store connection strings are configured.
// Without them the app runs on the in-memory gateway.
func (c *Config) Remote() bool {
	return c.PostgresConnStr != "" && c.MongoURI != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
