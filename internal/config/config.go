package config

import (
	"os"
	"path/filepath"
	"strconv"

	"crm-analytics/internal/analytics"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string
	LogDir              string
	CacheDir            string
	RulesPath           string
	EnableMermaidCharts bool
	DefaultWindowDays   int
	TeamRankLimit       int
	UserRankLimit       int
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Binary directory first, so an installed server finds its own .env
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Working directory
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
	cacheDir := filepath.Join(dataPath, "cache")

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", cacheDir).Msg("Failed to create cache directory")
	}

	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		CacheDir:            cacheDir,
		RulesPath:           getEnv("STAGE_RULES_PATH", ""),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
		DefaultWindowDays:   getEnvInt("DEFAULT_WINDOW_DAYS", analytics.DefaultWindowDays),
		TeamRankLimit:       getEnvInt("TEAM_RANK_LIMIT", analytics.DefaultTeamRankLimit),
		UserRankLimit:       getEnvInt("USER_RANK_LIMIT", analytics.DefaultUserRankLimit),
	}

	return cfg, nil
}

// EngineOptions turns the configuration into engine options, loading the
// stage rules file when one is configured.
func (c *AppConfig) EngineOptions() (analytics.Options, error) {
	rules := analytics.DefaultStageRules()
	if c.RulesPath != "" {
		loaded, err := LoadStageRules(c.RulesPath)
		if err != nil {
			return analytics.Options{}, err
		}
		rules = loaded
	}

	return analytics.Options{
		Rules:             rules,
		TeamRankLimit:     c.TeamRankLimit,
		UserRankLimit:     c.UserRankLimit,
		DefaultWindowDays: c.DefaultWindowDays,
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring invalid integer setting")
	}
	return fallback
}
