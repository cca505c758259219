package http

import (
	"context"
	"time"

	"github.com/geocoder89/bloghub/internal/auth"
	"github.com/geocoder89/bloghub/internal/cache"
	"github.com/geocoder89/bloghub/internal/config"
	"github.com/geocoder89/bloghub/internal/domain/user"
	"github.com/geocoder89/bloghub/internal/http/handlers"
	"github.com/geocoder89/bloghub/internal/http/middlewares"
	"github.com/geocoder89/bloghub/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// UsersStore is everything the router needs from the users repo: the
// CRUD surface for handlers plus the lookups auth depends on.
type UsersStore interface {
	handlers.UserStore
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type Deps struct {
	Cfg   config.Config
	JWT   *auth.Manager
	Users UsersStore
	Posts handlers.PostStore

	// Enqueuer may be nil; notifications are then skipped silently.
	Enqueuer handlers.JobEnqueuer

	Prom     *observability.Prom
	Registry *prometheus.Registry

	PingDB    func() error
	PingRedis func() error
}

const maxRequestBody = 1 << 20 // 1 MiB

func NewRouter(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxRequestBody))
	r.Use(otelgin.Middleware("bloghub-api"))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// health + metrics stay outside the versioned group and the limiter

	health := handlers.NewHealthHandler(d.PingDB, d.PingRedis)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	// handlers

	authHandler := handlers.NewAuthHandler(d.Users, d.JWT)
	usersHandler := handlers.NewUsersHandler(d.Users, d.Enqueuer)
	postsHandler := handlers.NewPostsHandler(d.Posts, d.Enqueuer, cache.New[handlers.ListPostsResponse](5*time.Second))

	authMW := middlewares.NewAuthMiddleware(d.JWT, d.Users)
	limiter := middlewares.NewRateLimiter(d.Cfg.RateLimit, d.Cfg.RateLimitWindow)

	api := r.Group("/api/v1")
	api.Use(limiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))
	api.Use(middlewares.RequireJSON())

	// auth
	api.POST("/auth/token", authHandler.Login)
	api.GET("/auth/me", authMW.RequireAuth(), authHandler.Me)

	// users; signup is the only public write
	api.POST("/users", usersHandler.Create)

	users := api.Group("/users", authMW.RequireAuth())
	users.GET("", usersHandler.List)
	users.GET("/:id", usersHandler.Get)
	users.PUT("/:id", usersHandler.Update)
	users.DELETE("/:id", usersHandler.Delete)

	// posts; reads are public, writes require auth
	api.GET("/posts", postsHandler.List)
	api.GET("/posts/:id", postsHandler.Get)

	posts := api.Group("/posts", authMW.RequireAuth())
	posts.POST("", postsHandler.Create)
	posts.PUT("/:id", postsHandler.Update)
	posts.DELETE("/:id", postsHandler.Delete)

	return r
}
