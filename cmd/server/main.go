package main

import (
	"log"
	"net/http"

	"leadflow-backend/api"
	"leadflow-backend/pkg/config"
	"leadflow-backend/pkg/database"
)

func main() {
	cfg := config.GetCached()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	db, err := database.NewStore(database.Config{
		PostgresDSN: cfg.PostgresDSN,
		Debug:       cfg.Debug,
	})
	if err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}
	defer db.Close()

	router := api.NewRouter(cfg, db)

	log.Printf("🚀 Server running on :%s (%s)", cfg.Port, cfg.Environment)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
