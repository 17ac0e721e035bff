package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath          string
	LogDir            string
	MaxHorizonDays    int
	MaxMonteCarloRuns int
	MonteCarloWorkers int
	RunBudget         time.Duration
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// Try the executable's directory first. MCP clients usually launch the
	// server with an arbitrary working directory, so a binary-relative
	// .env is the most reliable place to keep settings.
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// Fallback to the current working directory (useful for go run).
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	budgetSecs, _ := strconv.Atoi(getEnv("SIMULATION_RUN_BUDGET_SECONDS", "30"))
	if budgetSecs <= 0 {
		budgetSecs = 30
	}

	cfg := &AppConfig{
		DataPath:          dataPath,
		LogDir:            logDir,
		MaxHorizonDays:    getEnvInt("MAX_HORIZON_DAYS", 730),
		MaxMonteCarloRuns: getEnvInt("MAX_MONTE_CARLO_RUNS", 1000),
		MonteCarloWorkers: getEnvInt("MONTE_CARLO_WORKERS", 8),
		RunBudget:         time.Duration(budgetSecs) * time.Second,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
