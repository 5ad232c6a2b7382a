package main

import (
	"fmt"
	"os"
)

const (
	storeMemory   = "memory"
	storePostgres = "postgres"
)

// config is read from the environment after .env has been loaded.
type config struct {
	Addr          string // ADDR, listen address
	Store         string // STORE, "memory" (default) or "postgres"
	DBURL         string // DB_URL, required for the postgres store
	OpenAIBaseURL string // OPENAI_BASE_URL, without the /v1 suffix
	LogFile       string // LOG_FILE, optional rotated log file
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadConfig() (config, error) {
	cfg := config{
		Addr:          getenvDefault("ADDR", "localhost:3000"),
		Store:         getenvDefault("STORE", storeMemory),
		DBURL:         os.Getenv("DB_URL"),
		OpenAIBaseURL: getenvDefault("OPENAI_BASE_URL", defaultOpenAIBaseURL),
		LogFile:       os.Getenv("LOG_FILE"),
	}
	switch cfg.Store {
	case storeMemory:
	case storePostgres:
		if cfg.DBURL == "" {
			return config{}, fmt.Errorf("DB_URL is required when STORE=%s", storePostgres)
		}
	default:
		return config{}, fmt.Errorf("STORE must be %q or %q, got %q", storeMemory, storePostgres, cfg.Store)
	}
	return cfg, nil
}
