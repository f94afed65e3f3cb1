package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/manjeet0006/FoodShare/internal/api/handlers"
	"github.com/manjeet0006/FoodShare/internal/middleware"
	"github.com/manjeet0006/FoodShare/pkg/jwt"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	DonationHandler handlers.DonationHandler
	MessageHandler  handlers.MessageHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Auth()
	c.Donations()
	c.Messages()
	c.GuestRoute()
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth")
	{
		auth.Post("/signup", c.UserHandler.Register)
		auth.Post("/login", c.UserHandler.Login)
		auth.Get("/profile", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		auth.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		auth.Patch("/profile", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateProfile)
		auth.Get("/users/:id", c.UserHandler.GetPublicProfile)
	}
}

func (c *Config) Donations() {
	donations := c.App.Group("/api/donations")

	// static paths before the :id routes
	donations.Get("/feed", c.DonationHandler.GetFeed)
	donations.Get("/stats/global", c.DonationHandler.GetGlobalStats)
	donations.Get("/my-donations", c.Middleware.AuthMiddleware(c.JWTService), c.DonationHandler.GetMyDonations)

	donations.Post("", c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.OnlyDonor(), c.DonationHandler.CreateDonation)
	donations.Get("/:id", c.DonationHandler.GetDonationByID)
	donations.Patch("/:id/status", c.Middleware.AuthMiddleware(c.JWTService), c.DonationHandler.UpdateDonationStatus)
	donations.Patch("/:id/cancel-claim", c.Middleware.AuthMiddleware(c.JWTService), c.DonationHandler.CancelClaim)
	donations.Delete("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.OnlyDonor(), c.DonationHandler.DeleteDonation)
}

func (c *Config) Messages() {
	messages := c.App.Group("/api/messages", c.Middleware.AuthMiddleware(c.JWTService))

	messages.Get("/conversations", c.MessageHandler.GetConversations)
	messages.Get("/:donationId", c.MessageHandler.GetMessages)
	messages.Post("", c.MessageHandler.SendMessage)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
