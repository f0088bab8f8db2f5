package main

import (
	"log"

	"partsdash/internal/config"
	"partsdash/internal/container"
)

// Runs the dashboard without .env loading or graceful shutdown, for quick
// local checks.
func main() {
	appConfig, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	log.Printf("Starting partsdash UI on http://localhost:%s", appConfig.Server.Port)
	log.Fatal(appContainer.App.Start())
}
