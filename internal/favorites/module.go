// Package favorites lets buyers save listings for later.
package favorites

import (
	"carmarket_backend/internal/favorites/handler"
	"carmarket_backend/internal/favorites/repository"
	"carmarket_backend/internal/favorites/service"
	apphttp "carmarket_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the favorites bounded context.
type Module struct {
	handler *handler.Handler
}

// NewModule constructs the favorites module.
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	return &Module{handler: handler.New(service.New(repo))}
}

func (m *Module) Name() string { return "favorites" }

// RegisterRoutes mounts the authenticated favorites routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/favorites")
	group.GET("", m.handler.List)
	group.POST("/:listingId", m.handler.Add)
	group.DELETE("/:listingId", m.handler.Remove)
}
