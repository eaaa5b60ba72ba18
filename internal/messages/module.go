// Package messages implements listing-scoped conversations between buyers
// and dealers.
package messages

import (
	"carmarket_backend/internal/events"
	apphttp "carmarket_backend/internal/http"
	"carmarket_backend/internal/messages/handler"
	"carmarket_backend/internal/messages/repository"
	"carmarket_backend/internal/messages/service"
	"carmarket_backend/platform/logger"
	"carmarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the messages bounded context.
type Module struct {
	handler *handler.Handler
}

// NewModule constructs the messages module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string { return "messages" }

// RegisterRoutes mounts the authenticated messaging routes. Sends go through
// the mutation limiter like listing writes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/messages")
	group.GET("", m.handler.Conversation)
	group.POST("", ctx.MutationLimiter.RateLimit(), m.handler.Send)
	group.POST("/:id/read", m.handler.MarkRead)

	ctx.Protected.GET("/dealer/messages", m.handler.Inbox)
}
