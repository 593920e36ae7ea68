package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postboard/internal/api/handlers"
	"github.com/maheshrc27/postboard/internal/api/middleware"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Client    *handlers.ClientHandler
	Post      *handlers.PostHandler
	Dashboard *handlers.DashboardHandler
	Approval  *handlers.ApprovalHandler
	Media     *handlers.MediaHandler
}

// Register mounts every route on app. The approval routes are public; the
// token in the path authorizes them.
func Register(app *fiber.App, auth *middleware.AuthMiddleware, h Handlers) {
	app.Get("/login", h.Auth.Login)
	app.Get("/login/callback", h.Auth.LoginCallbackHandler)
	app.Post("/logout", h.Auth.Logout)

	approve := app.Group("/approve/:token")
	approve.Get("/", h.Approval.Get)
	approve.Post("/approve", h.Approval.Approve)
	approve.Post("/reject", h.Approval.Reject)
	approve.Put("/content", h.Approval.EditContent)

	api := app.Group("/api")
	api.Use(auth.AuthMiddleware())

	api.Get("/user/info", h.User.GetUserInfo)

	api.Get("/clients", h.Client.List)
	api.Put("/clients/filter", h.Client.SetFilter)
	api.Post("/clients/:id/toggle", h.Client.Toggle)
	api.Patch("/clients/:id", h.Client.Update)

	api.Get("/posts", h.Dashboard.Snapshot)
	api.Post("/posts/load-more", h.Dashboard.LoadMore)
	api.Post("/posts/refresh", h.Dashboard.Refresh)
	api.Post("/posts", h.Post.CreatePost)
	api.Get("/posts/:id", h.Post.GetPost)
	api.Patch("/posts/:id/status", h.Post.UpdateStatus)
	api.Patch("/posts/:id/content", h.Post.UpdateContent)
	api.Post("/posts/:id/publish", h.Post.Publish)

	api.Post("/media", h.Media.Upload)
	api.Get("/calendar", h.Dashboard.Calendar)
}
