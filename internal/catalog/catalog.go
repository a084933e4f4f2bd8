package catalog

import (
	"log/slog"

	"beautylist/internal/catalog/handler"
	"beautylist/internal/catalog/service"
	"beautylist/internal/catalog/store"
)

// Service exposes the catalog session controller.
type Service = service.Service

// Handler wires HTTP endpoints to the catalog session.
type Handler = handler.Handler

// NewService constructs a session over a fresh in-memory store.
func NewService(opts ...service.Option) (*Service, error) {
	return service.New(store.NewInMemory(), opts...)
}

// NewHandler constructs the HTTP handler for the catalog routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
