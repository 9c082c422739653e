package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/avelarde/rentmap/internal/adapters/geocode"
	natsadapter "github.com/avelarde/rentmap/internal/adapters/nats"
	"github.com/avelarde/rentmap/internal/adapters/postgres"
	"github.com/avelarde/rentmap/internal/pkg/config"
	"github.com/avelarde/rentmap/internal/pkg/logging"
	"github.com/avelarde/rentmap/internal/workflows"
)

// The geoworker runs the geocode backfill: it listens for unresolved
// geocode events on NATS, starts one workflow per event, and hosts the
// Temporal worker that executes the retry activities.
func main() {
	cfg, err := config.Load("rentmap-geoworker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	geocoder := geocode.New(
		cfg.Geocoder.BaseURL,
		cfg.Geocoder.UserAgent,
		time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second,
		cfg.Geocoder.MaxRetries,
	)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.GeocodeBackfillWorkflow)
	w.RegisterActivity(&workflows.GeocodeActivities{
		Properties: postgres.NewPropertyRepo(db),
		Geocoder:   geocoder,
	})

	// NATS subscription feeding the workflow queue
	nc, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer nc.Drain()

	sub, err := natsadapter.SubscribeGeocodeUnresolved(nc, "geoworker", func(evt natsadapter.GeocodeUnresolvedEvent) error {
		opts := client.StartWorkflowOptions{
			// One workflow per location; duplicate events collapse.
			ID:        "geocode-backfill-" + evt.LocationID,
			TaskQueue: cfg.Temporal.TaskQueue,
		}
		_, err := c.ExecuteWorkflow(context.Background(), opts,
			workflows.GeocodeBackfillWorkflow, workflows.GeocodeBackfillInput{
				PropertyID: evt.PropertyID,
				LocationID: evt.LocationID,
				Address:    evt.Address,
			})
		if err != nil {
			return err
		}
		slog.Info("geocode backfill started", "property_id", evt.PropertyID)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	slog.Info("geoworker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
