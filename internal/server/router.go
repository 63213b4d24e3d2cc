package server

import (
	"net/http"

	"cmt-tasks/internal/config"
	"cmt-tasks/internal/handlers"
	"cmt-tasks/internal/middleware"
	"cmt-tasks/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	authHandler := &handlers.AuthHandler{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}

	api := r.Group("/api")

	// AUTH
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	authed := api.Group("/")
	authed.Use(middleware.RequireAuth(cfg.JWTSecret, cfg.JWTIssuer))

	authed.GET("/auth/me", handlers.Me)

	// TASKS
	authed.GET("/tasks", handlers.ListTasks)
	authed.GET("/tasks/:id", handlers.GetTask)
	authed.POST("/tasks", handlers.CreateTask)
	authed.PUT("/tasks/:id", handlers.UpdateTask)

	authed.GET("/tasks/:id/comments", handlers.ListTaskComments)
	authed.POST("/tasks/:id/comments", handlers.CreateTaskComment)
	authed.GET("/tasks/:id/attachments", handlers.ListTaskAttachments)

	// TRANSFERS
	authed.POST("/tasks/:id/transfers",
		middleware.RequireRole(models.RoleShopTL, models.RoleTeamLeader, models.RoleDirector),
		handlers.CreateTransfer,
	)
	authed.GET("/transfers", handlers.ListTransfers)
	authed.PUT("/transfers/:id", handlers.ActOnTransfer)

	// NOTIFICATIONS
	authed.GET("/notifications", handlers.ListNotifications)
	authed.PUT("/notifications/:id/read", handlers.MarkNotificationRead)
	authed.PUT("/notifications/read-all", handlers.MarkAllNotificationsRead)

	// LOOKUPS
	authed.GET("/lookups/categories", handlers.ListCategories)
	authed.GET("/lookups/request-types", handlers.ListRequestTypes)
	authed.GET("/lookups/priorities", handlers.ListPriorities)

	// SHOPS
	authed.GET("/shops", handlers.ListShops)
	authed.POST("/shops",
		middleware.RequireRole(models.RoleTeamLeader, models.RoleDirector),
		handlers.CreateShop,
	)

	// USERS
	authed.GET("/users",
		middleware.RequireRole(models.RoleTeamLeader, models.RoleDirector),
		handlers.ListUsers,
	)
	authed.GET("/users/engineers", handlers.ListEngineers)
	authed.PUT("/users/:id/supervisor",
		middleware.RequireRole(models.RoleTeamLeader, models.RoleDirector),
		handlers.SetSupervisor,
	)
	authed.GET("/users/:id/metrics", handlers.GetUserMetrics)

	// HEALTHCHECK + METRICS
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
