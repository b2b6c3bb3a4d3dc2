package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// Config returns the value for key, loading .env on first use and falling
// back to the process environment.
func Config(key string) string {
	loadOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("Warning: .env file not found, reading from system environment variables")
		}
	})

	return os.Getenv(key)
}

// MustConfig is Config for keys the process cannot run without.
func MustConfig(key string) string {
	val := Config(key)
	if val == "" {
		log.Fatalf("🔥 Required environment variable %s is not set", key)
	}
	return val
}
