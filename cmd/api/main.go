package main

import (
	"log"

	"partsdash/internal/config"
	"partsdash/internal/container"

	"github.com/joho/godotenv"
)

// Serves only the JSON API, without the index page or CORS handling.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatal("Failed to create container:", err)
	}

	port := ":" + appConfig.Server.Port
	log.Printf("Starting API server on %s", port)
	if err := appContainer.API.Start(port); err != nil {
		log.Fatal("Server failed:", err)
	}
}
