package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"proposal-review-service/internal/adapter/middleware"
	"proposal-review-service/internal/domain/review"
)

type Routes struct {
	Health      *Handler
	Proposals   *ProposalHandler
	Reviews     *ReviewHandler
	Attachments *AttachmentHandler

	Redis        *redis.Client
	JWTSecret    string
	IdempTTL     time.Duration
	LookupLimit  int
	LookupWindow time.Duration
}

// Register mounts the public submission endpoints and the reviewer API.
func Register(e *echo.Echo, r Routes) {
	idem := middleware.Idempotency(r.Redis, r.IdempTTL)
	auth := middleware.RequireAuth(r.JWTSecret)
	staff := middleware.RequireRole(string(review.RoleAdmin), string(review.RoleManager))
	admin := middleware.RequireRole(string(review.RoleAdmin))

	e.GET("/health", r.Health.Health)

	e.POST("/proposals", r.Proposals.Create, idem)
	e.POST("/proposals/lookup", r.Proposals.Lookup, middleware.FixedWindowLimit(r.Redis, "lookup", r.LookupLimit, r.LookupWindow))

	p := e.Group("/proposals", auth, staff)
	p.GET("", r.Proposals.List)
	p.GET("/:id", r.Proposals.Get)
	p.PUT("/:id", r.Proposals.Update)
	p.PATCH("/:id/status", r.Proposals.UpdateStatus)
	p.DELETE("/:id", r.Proposals.Delete, admin)

	rv := e.Group("/reviews", auth, staff)
	rv.POST("", r.Reviews.Submit, idem)
	rv.GET("", r.Reviews.List)
	rv.GET("/:id", r.Reviews.Get)
	rv.PATCH("/:id", r.Reviews.Update)
	rv.DELETE("/:id", r.Reviews.Delete, admin)

	e.GET("/attachments", r.Attachments.Download, auth, staff)
}
