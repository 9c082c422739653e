package http

import (
	"github.com/nats-io/nats.go"

	"github.com/avelarde/rentmap/internal/adapters/postgres"
	"github.com/avelarde/rentmap/internal/adapters/valkey"
	"github.com/avelarde/rentmap/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Properties *usecases.PropertyService
	Leases     *usecases.LeaseService
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache
}
