package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	// Set properties of the predefined Logger, including
	// the log entry prefix and a flag to disable printing
	// the time, source file, and line number.
	log.SetPrefix("lg/bme-health-api: ")
	log.SetFlags(0)

	// A missing .env is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[main] .env not loaded: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.LogFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		defer rotated.Close()
		log.SetFlags(log.LstdFlags)
		log.SetOutput(io.MultiWriter(os.Stderr, rotated))
		gin.DefaultWriter = io.MultiWriter(os.Stdout, rotated)
	}

	var store recordStore
	switch cfg.Store {
	case storePostgres:
		pg, err := newPGStore(context.Background(), cfg.DBURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
			os.Exit(1)
		}
		defer pg.close()
		fmt.Println("DB pool ready!")
		store = pg
	default:
		store = newMemoryStore()
		fmt.Println("Using in-memory store; data is lost on restart.")
	}

	h := newHandler(store, cfg.OpenAIBaseURL)

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	fmt.Printf("Starting gin app on %s...\n", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Printf("[main] server stopped: %v", err)
	}
}
