package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tmc/langchaingo/tools/sqldatabase"
	"github.com/tmc/langchaingo/tools/sqldatabase/sqlite3"
	"golang.org/x/term"

	"rentalytics.io/rental-agent/internal/api"
	"rentalytics.io/rental-agent/internal/config"
	"rentalytics.io/rental-agent/internal/core"
	"rentalytics.io/rental-agent/internal/forecast"
	"rentalytics.io/rental-agent/internal/session"
	"rentalytics.io/rental-agent/internal/store"
	"rentalytics.io/rental-agent/internal/tools"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Command line flag for data ingestion
	ingestDataFlag := flag.Bool("ingest", false, "Run the rental data ETL and exit")
	flag.Parse()

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	// Handle data ingestion if flag is set
	if *ingestDataFlag {
		log.Println("Starting rental data ingestion...")
		geo, err := store.LoadGeoIndex(config.AppConfig.GeoCSVPath)
		if err != nil {
			log.Fatalf("Failed to load geo index: %v", err)
		}
		log.Printf("Geo index loaded with %d ZIP codes.", len(geo))

		numIngested, err := dbStore.IngestRentals(config.AppConfig.RentalsCSVPath, geo, config.AppConfig.MaxRentalRows)
		if err != nil {
			log.Fatalf("Rental ingestion failed: %v", err)
		}
		log.Printf("Ingestion complete. Loaded %d rental rows. Exiting.", numIngested)
		os.Exit(0)
	}

	// The API key is collected interactively when not configured; it
	// is never persisted.
	apiKey := config.AppConfig.OpenAIAPIKey
	if apiKey == "" {
		apiKey, err = promptForAPIKey()
		if err != nil {
			log.Fatalf("Failed to read API key: %v", err)
		}
	}
	if apiKey == "" {
		log.Fatal("An OpenAI API key is required")
	}

	// Initialize LLM service
	llmService, err := core.NewLLMService(apiKey, config.AppConfig.OpenAIModel)
	if err != nil {
		log.Fatalf("Failed to initialize LLM service: %v", err)
	}

	// The model's SQL tools go through langchaingo's SQLDatabase
	// wrapper over the same SQLite file.
	sqlDB, err := sqldatabase.NewSQLDatabaseWithDSN(sqlite3.EngineName, config.AppConfig.DatabaseURL, nil)
	if err != nil {
		log.Fatalf("Failed to open SQL tool database: %v", err)
	}
	defer sqlDB.Close()

	// Forecast adapter and chart gallery
	forecastClient := forecast.NewClient(config.AppConfig.ForecastURL)
	forecastService := forecast.NewService(forecastClient, 20)
	gallery := forecast.NewGallery()

	// Tool registry and agent
	registry := tools.NewRegistry(sqlDB, llmService, forecastService, gallery)
	sessions := session.NewMemoryStore()
	agentService := core.NewAgentService(llmService, registry, sessions, config.AppConfig.HistoryWindow)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(agentService, gallery)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // agent turns can span several model calls
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}

// promptForAPIKey reads the OpenAI API key from the terminal without
// echoing it. Falls back to a plain line read when stdin is not a
// terminal (e.g. piped input).
func promptForAPIKey() (string, error) {
	fmt.Print("OpenAI API key: ")

	if term.IsTerminal(int(os.Stdin.Fd())) {
		key, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read key: %w", err)
		}
		return strings.TrimSpace(string(key)), nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", fmt.Errorf("no input: %w", scanner.Err())
	}
	return strings.TrimSpace(scanner.Text()), nil
}
