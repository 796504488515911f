package router

import (
	"tenure-registry/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func Setup(app *fiber.App, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    cfg.AppName,
		})
	})

	// Web routes (HTML)
	web := app.Group("")
	setupWebRoutes(web)

	// API routes (JSON)
	api := app.Group("/api/v1")
	SetupAPIRoutes(api, db, redis, cfg)
}

func setupWebRoutes(router fiber.Router) {
	// Authentication pages
	router.Get("/login", func(c *fiber.Ctx) error {
		return c.Render("auth/login", fiber.Map{
			"Title": "Login",
		})
	})

	// Import sessions
	router.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/imports")
	})

	router.Get("/imports", func(c *fiber.Ctx) error {
		return c.Render("imports/index", fiber.Map{
			"Title": "Import Sessions",
		})
	})

	router.Get("/imports/new", func(c *fiber.Ctx) error {
		return c.Render("imports/new", fiber.Map{
			"Title": "New Import",
		})
	})

	router.Get("/imports/:id", func(c *fiber.Ctx) error {
		return c.Render("imports/detail", fiber.Map{
			"Title": "Import Detail",
		})
	})

	// Audit trail
	router.Get("/history", func(c *fiber.Ctx) error {
		return c.Render("imports/history", fiber.Map{
			"Title": "Import History",
		})
	})
}
