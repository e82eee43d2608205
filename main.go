package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/cmd"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/config"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/logger"
)

func main() {
	// A missing .env is fine, the environment may already be set
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration: %v", err)
		cfg = config.Default()
		// Use default logger config if main config fails
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	} else {
		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	log := logger.WithComponent("main")
	log.Debug().Msg("Starting crm")

	cmd.Execute(cfg)
}
