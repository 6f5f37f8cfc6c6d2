// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"banking-service/pkg/db"

	"github.com/joho/godotenv"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort      string
	DB              db.Config
	JWTSecret       string
	JWTIssuer       string
	JWTTTL          time.Duration
	BcryptCost      int
	AccrualInterval time.Duration
}

// LoadConfig loads configuration from environment variables, with a .env
// file picked up when present.
func LoadConfig() (*AppConfig, error) {
	// Missing .env is fine; real environments inject variables directly.
	_ = godotenv.Load()

	serverPort := getEnv("SERVER_PORT", "8080")

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	jwtTTLMinutes, err := strconv.Atoi(getEnv("JWT_TTL_MINUTES", "60"))
	if err != nil || jwtTTLMinutes <= 0 {
		jwtTTLMinutes = 60
	}

	bcryptCost, err := strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil || bcryptCost < 4 {
		bcryptCost = 10
	}

	accrualSeconds, err := strconv.Atoi(getEnv("ACCRUAL_INTERVAL_SECONDS", "60"))
	if err != nil || accrualSeconds <= 0 {
		accrualSeconds = 60
	}

	return &AppConfig{
		ServerPort: serverPort,
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "bankingdb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),
		JWTIssuer:       getEnv("JWT_ISSUER", "banking-service"),
		JWTTTL:          time.Duration(jwtTTLMinutes) * time.Minute,
		BcryptCost:      bcryptCost,
		AccrualInterval: time.Duration(accrualSeconds) * time.Second,
	}, nil
}

func getEnv(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}
