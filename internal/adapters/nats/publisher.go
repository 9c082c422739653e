package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/avelarde/rentmap/internal/core/domain"
)

// Subjects published by the listings service. Subscribers (the WebSocket
// relay and the geocode backfill worker) bind to the wildcard forms.
const (
	SubjectPropertyCreated   = "listings.created"
	SubjectGeocodeUnresolved = "listings.geocode.unresolved"
	SubjectCreatedWildcard   = "listings.created.>"
)

// GeocodeUnresolvedEvent is the payload on listings.geocode.unresolved. It
// carries everything the backfill worker needs to retry the lookup without
// re-reading the property row.
type GeocodeUnresolvedEvent struct {
	PropertyID string         `json:"propertyId"`
	LocationID string         `json:"locationId"`
	Address    domain.Address `json:"address"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream, and ensures the
// LISTINGS stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      "LISTINGS",
		Subjects:  []string{"listings.>"},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist — try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishPropertyCreated(ctx context.Context, prop *domain.Property) error {
	data, err := json.Marshal(prop)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectPropertyCreated+"."+prop.ID, data)
	return err
}

func (p *Publisher) PublishGeocodeUnresolved(ctx context.Context, propertyID, locationID string, addr domain.Address) error {
	data, err := json.Marshal(GeocodeUnresolvedEvent{
		PropertyID: propertyID,
		LocationID: locationID,
		Address:    addr,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectGeocodeUnresolved, data)
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
