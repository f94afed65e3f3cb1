package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/manjeet0006/FoodShare/cmd/config"
	migration "github.com/manjeet0006/FoodShare/cmd/database/migrate"
	"github.com/manjeet0006/FoodShare/internal/utils"
)

func main() {
	_ = godotenv.Load()
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	rdb := config.ConnectRedis()

	app, err := config.NewApp(db, rdb)
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}
	log.Fatal(app.Listen(":" + port))
}
