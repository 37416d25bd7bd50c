package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Client settings
	APIBaseURL     string
	WeatherBaseURL string
	WeatherSuffix  string
	RequestTimeout time.Duration
	SessionFile    string

	// Fallback coordinate used when the platform location service fails
	DefaultLatitude  float64
	DefaultLongitude float64

	// Notification auto-clear interval
	NotificationTTL time.Duration

	// Stub server settings
	Port string
	Host string
	Env  string

	// JWT settings (stub server)
	JWTSecret     string
	JWTExpiration int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	config := &Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:5000/api"),
		WeatherBaseURL: getEnv("WEATHER_BASE_URL", "https://wttr.in"),
		WeatherSuffix:  getEnv("WEATHER_SUFFIX", "Malaysia"),
		RequestTimeout: time.Duration(getEnvAsInt("REQUEST_TIMEOUT", 15)) * time.Second,
		SessionFile:    getEnv("SESSION_FILE", ".vems_session.json"),

		DefaultLatitude:  getEnvAsFloat("DEFAULT_LATITUDE", 3.139),
		DefaultLongitude: getEnvAsFloat("DEFAULT_LONGITUDE", 101.6869),

		NotificationTTL: time.Duration(getEnvAsInt("NOTIFICATION_TTL_MS", 3000)) * time.Millisecond,

		Port: getEnv("PORT", "5000"),
		Host: getEnv("HOST", "0.0.0.0"),
		Env:  getEnv("ENV", "development"),

		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiration: getEnvAsInt("JWT_EXPIRATION", 24), // hours
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
