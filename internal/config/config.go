package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBUrl        string
	JWTSecret    string
	TokenTTL     time.Duration
	StoreBackend string
	RedisAddr    string
}

// LoadConfig reads the environment (optionally seeded from a .env file)
// once at startup; everything downstream receives the result by injection.
// TOKEN_TTL accepts Go duration syntax; "0" issues tokens without expiry.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment defaults")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default-secret-key-change-in-production"
		log.Println("JWT_SECRET not set, using default key")
	}

	tokenTTL := 24 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("Invalid TOKEN_TTL %q, using default 24h", raw)
		} else {
			tokenTTL = ttl
		}
	}

	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = "mysql"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	return Config{
		Port:         port,
		DBUrl:        os.Getenv("DB_URL"),
		JWTSecret:    secret,
		TokenTTL:     tokenTTL,
		StoreBackend: backend,
		RedisAddr:    redisAddr,
	}
}
