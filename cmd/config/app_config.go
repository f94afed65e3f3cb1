package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/manjeet0006/FoodShare/internal/api/handlers"
	"github.com/manjeet0006/FoodShare/internal/api/routes"
	"github.com/manjeet0006/FoodShare/internal/middleware"
	"github.com/manjeet0006/FoodShare/internal/utils"
	"github.com/manjeet0006/FoodShare/internal/utils/storage"
	"github.com/manjeet0006/FoodShare/pkg/donation"
	"github.com/manjeet0006/FoodShare/pkg/jwt"
	"github.com/manjeet0006/FoodShare/pkg/message"
	"github.com/manjeet0006/FoodShare/pkg/user"
)

func NewApp(db *gorm.DB, rdb *redis.Client) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	donationRepository := donation.NewDonationRepository(db)
	messageRepository := message.NewMessageRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	donationService := donation.NewDonationService(donationRepository, userRepository, s3, rdb)
	messageService := message.NewMessageService(messageRepository, userRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	donationHandler := handlers.NewDonationHandler(donationService, validator)
	messageHandler := handlers.NewMessageHandler(messageService, validator)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		DonationHandler: donationHandler,
		MessageHandler:  messageHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
