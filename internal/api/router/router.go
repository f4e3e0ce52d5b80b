package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/photogram/config"
	_ "github.com/d60-Lab/photogram/docs"
	"github.com/d60-Lab/photogram/internal/api/handler"
	"github.com/d60-Lab/photogram/internal/api/middleware"
	"github.com/d60-Lab/photogram/pkg/response"
)

// Setup 注册中间件与全部路由
func Setup(cfg *config.Config, h *handler.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.Logger())
	r.Use(corsMiddleware(cfg.Server.AllowOrigins))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.Authenticate(h.Tokens(), h.CookieName()))

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if cfg.Upload.Dir != "" {
		r.Static("/media", cfg.Upload.Dir)
	}

	account := r.Group("/")
	if cfg.RateLimit.Enabled {
		account.Use(middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware())
	}
	account.POST("/login", h.Login)
	account.POST("/register", h.Register)
	r.POST("/logout", h.Logout)
	r.GET("/logout", h.Logout)

	r.GET("/", h.Index)
	r.GET("/posts/:id", h.GetPost)
	r.GET("/tags/:name", h.GetTag)
	r.GET("/users/:username", h.GetUser)
	r.GET("/users/:username/followers", h.ListFollowers)
	r.GET("/users/:username/following", h.ListFollowing)

	authed := r.Group("/", middleware.RequireAuth())
	{
		authed.GET("/users/:username/update", h.EditProfileForm)
		authed.POST("/users/:username/update", h.UpdateProfile)
		authed.GET("/users/follow/:user_id", h.Follow)

		authed.POST("/posts/create", h.CreatePost)
		authed.POST("/posts/:id/like", h.LikePost)
		authed.POST("/posts/:id/delete", h.DeletePost)
		authed.POST("/posts/:id/edit", h.EditPost)
		authed.POST("/posts/:id/tags/create", h.AddTags)
		authed.POST("/posts/:id/tags/:tag_id/remove", h.RemoveTag)

		// :id 在 create 中为帖子ID，其余为评论ID
		authed.POST("/comments/:id/create", h.CreateComment)
		authed.POST("/comments/:id/update", h.UpdateComment)
		authed.POST("/comments/:id/like", h.LikeComment)
		authed.POST("/comments/:id/delete", h.DeleteComment)

		authed.GET("/reactions/:username", h.ListReactions)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.Response{Code: response.CodeNotFound, Message: "not found"})
	})
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	cc := cors.DefaultConfig()
	cc.AllowOrigins = origins
	cc.AllowCredentials = true
	cc.AddAllowHeaders("Authorization")
	return cors.New(cc)
}
