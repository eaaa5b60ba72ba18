package cache

import (
	"context"

	"carmarket_backend/internal/events"
)

// RegisterHandlers subscribes the cache to listing change events so cached
// pages never outlive the data they summarize.
func (c *Cache) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.ListingCreated{}.EventName(), c)
	bus.Subscribe(events.ListingUpdated{}.EventName(), c)
	bus.Subscribe(events.ListingDeleted{}.EventName(), c)
	bus.Subscribe(events.ListingsExpired{}.EventName(), c)
}

// Handle routes domain events to the invalidation policy. Any listing
// mutation could affect a cached search page, the listing's detail view and
// the aggregates, so all three categories are cleared.
func (c *Cache) Handle(ctx context.Context, event events.Event) error {
	switch event.(type) {
	case events.ListingCreated, events.ListingUpdated, events.ListingDeleted, events.ListingsExpired:
		return c.InvalidateCategories(ctx, CategorySearch, CategoryDetail, CategoryAggregate)
	default:
		return nil
	}
}

// Compile-time check that Cache implements events.Handler.
var _ events.Handler = (*Cache)(nil)
