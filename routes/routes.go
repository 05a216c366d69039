package routes

import (
	"microblog/handlers"
	"microblog/middleware"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	// Health check
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Microblog API",
			"version": "1.0.0",
		})
	})

	// Auth routes
	app.Post("/register", handlers.Register)
	app.Post("/login", handlers.Login)
	app.Post("/logout", middleware.AuthRequired, handlers.Logout)
	app.Get("/auth/me", middleware.AuthRequired, handlers.Me)
	app.Get("/users", middleware.AuthRequired, handlers.GetAllUsers)

	// Post routes
	posts := app.Group("/posts")
	// Public post routes
	posts.Get("/", handlers.GetAllPosts)
	posts.Get("/:id", handlers.GetPost)
	// Protected post routes
	posts.Post("/", middleware.AuthRequired, handlers.CreatePost)
	posts.Put("/:id", middleware.AuthRequired, handlers.UpdatePost)
	posts.Delete("/:id", middleware.AuthRequired, handlers.DeletePost)

	// Comment routes
	comments := app.Group("/comments")
	// Public comment routes
	comments.Get("/", handlers.GetAllComments)
	comments.Get("/:id", handlers.GetComment)
	// Protected comment routes
	comments.Post("/", middleware.AuthRequired, handlers.CreateComment)
	comments.Put("/:id", middleware.AuthRequired, handlers.UpdateComment)
	comments.Delete("/:id", middleware.AuthRequired, handlers.DeleteComment)
}
