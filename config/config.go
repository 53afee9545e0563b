package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	AppEnv         string
	AppPort        string
	AllowedOrigins string
	DBDriver       string
	DBPath         string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBMaxIdleConns int
	DBMaxOpenConns int
	BrokerURL      string
	JWTSecret      string
	RateLimitRPM   int
	RateLimitBurst int
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("%s not set, defaulting to %s", key, defaultValue)
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Invalid integer value for %s, defaulting to %d", key, defaultValue)
	}
	return defaultValue
}

func Load() Config {
	log.Println("Loading configuration...")

	return Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		AppPort:        getEnv("APP_PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBPath:         getEnv("DB_PATH", "taskflow.db"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "taskflow"),
		DBPassword:     getEnv("DB_PASSWORD", "taskflow"),
		DBName:         getEnv("DB_NAME", "taskflow"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		BrokerURL:      getEnv("NATS_URL", "nats://localhost:4222"),
		JWTSecret:      getEnv("JWT_SECRET", "your-super-secret-key-change-this-in-production"),
		RateLimitRPM:   getEnvAsInt("RATE_LIMIT_RPM", 120),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 60),
	}
}
