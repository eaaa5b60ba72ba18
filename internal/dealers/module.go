// Package dealers implements seller profile management and the dealer
// dashboard.
package dealers

import (
	"carmarket_backend/internal/cache"
	"carmarket_backend/internal/dealers/handler"
	"carmarket_backend/internal/dealers/repository"
	"carmarket_backend/internal/dealers/service"
	"carmarket_backend/internal/events"
	apphttp "carmarket_backend/internal/http"
	"carmarket_backend/platform/logger"
	"carmarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the dealers bounded context.
type Module struct {
	handler *handler.Handler
}

// NewModule constructs the dealers module.
func NewModule(pool *pgxpool.Pool, resultCache *cache.Cache, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, resultCache, bus, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string { return "dealers" }

// RegisterRoutes mounts the public profile route and the authenticated
// profile/dashboard routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/dealers/:id", m.handler.Profile)

	ctx.Protected.POST("/dealers", m.handler.Upsert)
	ctx.Protected.GET("/dealer/dashboard", m.handler.Dashboard)
}
