package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/config"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/routes"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := storage.OpenDB(cfg)
	r := routes.NewRouter(db, cfg)

	addr := ":" + cfg.AppPort
	log.Printf("Server running on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
