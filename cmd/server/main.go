package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/garantiflyt/invoice-extract-service/api"
	"github.com/garantiflyt/invoice-extract-service/internal/ai"
	"github.com/garantiflyt/invoice-extract-service/internal/auth"
	"github.com/garantiflyt/invoice-extract-service/internal/db"
	"github.com/garantiflyt/invoice-extract-service/internal/models"
	"github.com/garantiflyt/invoice-extract-service/internal/storage"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	godotenv.Load()

	log := newLogger()

	if err := auth.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth")
	}
	log.Info().Msg("JWT authentication initialized")

	// Database and storage are optional: without them the service still
	// extracts, it just does not persist results or files.
	if err := db.Init(); err != nil {
		log.Warn().Err(err).Msg("database not available, running without persistence")
	} else {
		defer db.Close()
		log.Info().Msg("database connection pool initialized")
	}

	if err := storage.Init(); err != nil {
		log.Warn().Err(err).Msg("storage not available, invoice files will not be kept")
	} else {
		log.Info().Str("bucket", storage.BucketName).Msg("storage initialized")
	}

	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	provider, err := ai.NewProvider(config.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure vision provider")
	}
	if provider == nil {
		log.Warn().Msg("no vision provider configured, extracting from text only")
	} else {
		log.Info().Str("provider", provider.Name()).Msg("vision provider configured")
	}

	handler := api.NewHandler(config, provider, log)
	router := handler.SetupRoutes()

	router.HandleFunc("/api/login", auth.LoginHandler).Methods("POST")

	// JWT middleware skips /health and /api/login.
	protectedRouter := auth.JWTMiddleware(router)

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	log.Info().
		Str("addr", addr).
		Str("version", api.Version).
		Str("ocr_engine", config.OCR.Engine).
		Str("ocr_language", config.OCR.Language).
		Bool("database", db.Pool != nil).
		Bool("storage", storage.Client != nil).
		Msg("starting invoice extraction service")

	if err := http.ListenAndServe(addr, protectedRouter); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && os.Getenv("LOG_LEVEL") != "" {
		level = l
	}

	var w = os.Stderr
	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if os.Getenv("LOG_PRETTY") == "true" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}
	return logger
}

func loadConfig(path string) (*models.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config models.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment variables override the file.
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &config.Port)
	}
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}
	if lang := os.Getenv("OCR_LANGUAGE"); lang != "" {
		config.OCR.Language = lang
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.AI.OpenAI.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.AI.OpenAI.BaseURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.AI.OpenAI.Model = model
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.AI.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.AI.Gemini.Model = model
	}
	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		config.AI.DefaultProvider = provider
	}

	if config.Host == "" {
		config.Host = "0.0.0.0"
	}
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.OCR.Engine == "" {
		config.OCR.Engine = "tesseract"
	}
	if config.OCR.Language == "" {
		config.OCR.Language = "nor"
	}

	return &config, nil
}
