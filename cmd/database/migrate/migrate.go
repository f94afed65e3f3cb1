package migration

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/manjeet0006/FoodShare/entities"
)

func Migrate(db *gorm.DB) error {
	// Setup PostgreSQL extensions for geographical calculations
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"earthdistance\" CASCADE;")
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"cube\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Donation{}); err != nil {
		log.Fatalf("Error migrating donation database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Message{}); err != nil {
		log.Fatalf("Error migrating message database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
