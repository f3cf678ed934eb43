package app

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"github.com/vladaframchuk/event-planning-app-sub001/internal/auth"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/config"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/handlers"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/metrics"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/realtime"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/service"
)

type routeDeps struct {
	cfg     config.Config
	log     zerolog.Logger
	metrics *metrics.Metrics
	tokens  *auth.TokenManager
	refresh *auth.RefreshStore
	hub     *realtime.Hub

	userSvc   *service.UserService
	eventSvc  *service.EventService
	inviteSvc *service.InviteService
	taskSvc   *service.TaskService
	pollSvc   *service.PollService
	chatSvc   *service.ChatService
	exportSvc *service.ExportService
}

// setupRoutes registers all routes on the given engine.
func setupRoutes(r *gin.Engine, d routeDeps) {
	r.GET("/", rootHandler(d.cfg))
	r.GET("/health", healthHandler(d.cfg))
	r.GET("/version", versionHandler(d.cfg))
	r.GET("/metrics", d.metrics.Handler())
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	// WebSocket endpoint authenticates via query token, outside the
	// Bearer middleware.
	r.GET("/ws/events/:id", realtime.ServeWS(d.hub, d.tokens, d.eventSvc, d.cfg.WS, d.log))

	api := r.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(d.tokens, d.refresh, d.userSvc)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	protected := api.Group("", auth.RequireAuth(d.tokens))

	userHandler := handlers.NewUserHandler(d.userSvc)
	protected.GET("/me", userHandler.Me)
	protected.PATCH("/me", userHandler.UpdateMe)

	eventHandler := handlers.NewEventHandler(d.eventSvc)
	protected.POST("/events", eventHandler.Create)
	protected.GET("/events", eventHandler.List)
	protected.GET("/events/:id", eventHandler.Get)
	protected.PATCH("/events/:id", eventHandler.Update)
	protected.DELETE("/events/:id", eventHandler.Delete)
	protected.GET("/events/:id/participants", eventHandler.Participants)
	protected.PUT("/events/:id/participants/:userID/role", eventHandler.ChangeRole)
	protected.DELETE("/events/:id/participants/:userID", eventHandler.RemoveParticipant)
	protected.POST("/events/:id/leave", eventHandler.Leave)

	inviteHandler := handlers.NewInviteHandler(d.inviteSvc)
	protected.POST("/events/:id/invites", inviteHandler.Create)
	protected.GET("/events/:id/invites", inviteHandler.List)
	protected.DELETE("/events/:id/invites/:inviteID", inviteHandler.Revoke)
	protected.POST("/invites/redeem", inviteHandler.Redeem)

	taskHandler := handlers.NewTaskHandler(d.taskSvc)
	protected.GET("/events/:id/board", taskHandler.Board)
	protected.POST("/events/:id/lists", taskHandler.CreateList)
	protected.PATCH("/lists/:id", taskHandler.RenameList)
	protected.DELETE("/lists/:id", taskHandler.DeleteList)
	protected.POST("/lists/:id/move", taskHandler.MoveList)
	protected.POST("/lists/:id/tasks", taskHandler.CreateTask)
	protected.PATCH("/tasks/:id", taskHandler.UpdateTask)
	protected.DELETE("/tasks/:id", taskHandler.DeleteTask)
	protected.POST("/tasks/:id/move", taskHandler.MoveTask)

	pollHandler := handlers.NewPollHandler(d.pollSvc)
	protected.POST("/events/:id/polls", pollHandler.Create)
	protected.GET("/events/:id/polls", pollHandler.List)
	protected.GET("/polls/:id", pollHandler.Get)
	protected.DELETE("/polls/:id", pollHandler.Delete)
	protected.POST("/polls/:id/options", pollHandler.AddOption)
	protected.POST("/polls/:id/vote", pollHandler.Vote)
	protected.POST("/polls/:id/unvote", pollHandler.Unvote)
	protected.POST("/polls/:id/close", pollHandler.Close)
	protected.POST("/polls/:id/reopen", pollHandler.Reopen)

	chatHandler := handlers.NewChatHandler(d.chatSvc)
	protected.GET("/events/:id/messages", chatHandler.History)
	protected.POST("/events/:id/messages", chatHandler.Post)
	protected.DELETE("/messages/:id", chatHandler.Delete)

	exportHandler := handlers.NewExportHandler(d.exportSvc)
	protected.POST("/events/:id/export", exportHandler.Request)
	protected.GET("/exports/:id", exportHandler.Get)
	protected.GET("/exports/:id/download", exportHandler.Download)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Planner API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
			"ws":      "/ws/events/{id}",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}
