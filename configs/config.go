package configs

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL      string
	WSURL           string
	StorePath       string
	Port            string
	ReturnURL       string
	AllowedOrigins  []string
	PollInterval    time.Duration
	RejectNoticeTTL time.Duration
}

func LoadConfig() *Config {
	// .env is optional on a kiosk; env vars win either way
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:4000/api"),
		WSURL:           getEnv("WS_URL", "ws://localhost:4000/orders"),
		StorePath:       getEnv("STORE_PATH", "tableside.db"),
		Port:            getEnv("PORT", "3000"),
		ReturnURL:       getEnv("RETURN_URL", "http://localhost:3000/payments/return"),
		AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		PollInterval:    2 * time.Second,
		RejectNoticeTTL: 5 * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func MustGetEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		log.Fatalf("missing env: %s", key)
	}
	return v
}
