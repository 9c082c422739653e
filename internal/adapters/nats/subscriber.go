package natsadapter

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// SubscribeGeocodeUnresolved binds a durable JetStream consumer to the
// unresolved-geocode subject and hands each decoded event to fn. Messages
// are acked only after fn returns nil, so a crashed worker re-receives
// pending events.
func SubscribeGeocodeUnresolved(conn *nats.Conn, durable string, fn func(GeocodeUnresolvedEvent) error) (*nats.Subscription, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	sub, err := js.Subscribe(SubjectGeocodeUnresolved, func(msg *nats.Msg) {
		var evt GeocodeUnresolvedEvent
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			slog.Warn("geocode event decode failed", "error", err)
			_ = msg.Term()
			return
		}
		if err := fn(evt); err != nil {
			slog.Warn("geocode event handling failed",
				"property_id", evt.PropertyID, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	}, nats.Durable(durable), nats.ManualAck())
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", SubjectGeocodeUnresolved, err)
	}
	return sub, nil
}
