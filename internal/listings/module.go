// Package listings implements the vehicle listing catalog: public search,
// similarity recommendations, market aggregates, and dealer-side management.
package listings

import (
	"carmarket_backend/internal/cache"
	"carmarket_backend/internal/events"
	apphttp "carmarket_backend/internal/http"
	"carmarket_backend/internal/listings/handler"
	"carmarket_backend/internal/listings/repository"
	"carmarket_backend/internal/listings/search"
	"carmarket_backend/internal/listings/service"
	"carmarket_backend/platform/logger"
	"carmarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the listings bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule constructs the listings module and its internal dependencies.
func NewModule(pool *pgxpool.Pool, resultCache *cache.Cache, bus events.Bus, ranker search.RankerConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, resultCache, bus, ranker, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string { return "listings" }

// Service exposes the listings service for the scheduler's expiry task.
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes mounts the public catalog routes and the authenticated
// dealer management routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.Public.Group("/listings")
	public.GET("/search", m.handler.Search)
	public.GET("/makes", m.handler.Makes)
	public.GET("/stats", m.handler.Stats)
	public.GET("/:id", m.handler.GetByID)
	public.GET("/:id/similar", m.handler.Similar)

	protected := ctx.Protected.Group("")
	protected.GET("/dealer/listings", m.handler.DealerListings)

	mutations := ctx.Protected.Group("/listings")
	mutations.Use(ctx.MutationLimiter.RateLimit())
	mutations.POST("", m.handler.Create)
	mutations.PUT("/:id", m.handler.Update)
	mutations.DELETE("/:id", m.handler.Delete)
}
