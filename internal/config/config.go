package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	OpenAIAPIKey   string
	OpenAIModel    string
	DatabaseURL    string
	HTTPPort       string
	LogLevel       string
	ForecastURL    string
	GeoCSVPath     string
	RentalsCSVPath string
	HistoryWindow  int
	MaxRentalRows  int
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""), // empty means prompt at startup
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-3.5-turbo-0125"),
		DatabaseURL:    getEnv("DATABASE_URL", "zillow.db"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		ForecastURL:    getEnv("FORECAST_URL", "http://localhost:8000/predict"),
		GeoCSVPath:     getEnv("GEO_CSV_PATH", "geo-data.csv"),
		RentalsCSVPath: getEnv("RENTALS_CSV_PATH", "rentals.csv"),
		HistoryWindow:  getEnvAsInt("HISTORY_WINDOW", 10),
		MaxRentalRows:  getEnvAsInt("MAX_RENTAL_ROWS", 10000),
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
