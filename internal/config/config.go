package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN      string
	ServerPort string
	JWTSecret  string
	JWTIssuer  string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:      os.Getenv("DB_DSN"),
		ServerPort: os.Getenv("SERVER_PORT"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTIssuer:  os.Getenv("JWT_ISSUER"),
	}

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "cmt-tasks"
	}

	return cfg
}
