package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/postly/postly/config"
	"github.com/postly/postly/controllers"
	"github.com/postly/postly/middleware"
	"github.com/postly/postly/services"
	"github.com/postly/postly/store"
	"github.com/postly/postly/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	st := store.New(db)
	postService := services.NewPostService(st, services.PostServiceConfig{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	})
	userDirectory := services.NewUserDirectory(st, utils.BcryptHasher{})

	accountController := controllers.NewAccountController(userDirectory)
	postController := controllers.NewPostController(postService)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	accounts := api.Group("/accounts")
	accounts.Use(middleware.RateLimitMiddleware())
	accounts.POST("/signup", accountController.Signup)
	accounts.POST("/login", accountController.Login)
	accounts.POST("/logout", middleware.AuthRequired(), accountController.Logout)
	accounts.GET("/me", middleware.AuthRequired(), accountController.Me)

	posts := api.Group("/posts")
	posts.GET("", middleware.AuthOptional(), postController.ListPosts)
	posts.GET("/mine", middleware.AuthRequired(), postController.ListMyPosts)
	posts.GET("/:id", postController.GetPost)
	posts.POST("", middleware.AuthRequired(), postController.CreatePost)
	posts.PUT("/:id", middleware.AuthRequired(), postController.UpdatePost)
	posts.DELETE("/:id", middleware.AuthRequired(), postController.DeletePost)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
