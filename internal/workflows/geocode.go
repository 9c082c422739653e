package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/avelarde/rentmap/internal/core/domain"
)

// GeocodeBackfillInput is the input for the geocode backfill workflow.
type GeocodeBackfillInput struct {
	PropertyID string
	LocationID string
	Address    domain.Address
}

// GeocodeBackfillWorkflow retries the address lookup for a property whose
// inline geocode failed at creation time. On success it replaces the stored
// origin placeholder with the resolved point; if the provider still cannot
// resolve the address after the retry budget, the workflow completes without
// touching the row and the listing keeps its placeholder.
func GeocodeBackfillWorkflow(ctx workflow.Context, input GeocodeBackfillInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting geocode backfill", "propertyID", input.PropertyID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: 30 * time.Second,
			MaximumInterval: 10 * time.Minute,
			MaximumAttempts: 5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: ask the provider again
	var result ResolveResult
	if err := workflow.ExecuteActivity(ctx, "ResolveAddress", input.Address).Get(ctx, &result); err != nil {
		return err
	}
	if !result.Resolved {
		logger.Info("address still unresolved, keeping placeholder", "propertyID", input.PropertyID)
		return nil
	}

	// Step 2: replace the placeholder point
	var updated int64
	err := workflow.ExecuteActivity(ctx, "UpdateLocationPoint", input.LocationID, result.Point).Get(ctx, &updated)
	if err != nil {
		return err
	}
	if updated == 0 {
		// A concurrent backfill (or a manual fix) got there first.
		logger.Info("location already geocoded, nothing to do", "locationID", input.LocationID)
		return nil
	}

	logger.Info("geocode backfilled", "propertyID", input.PropertyID,
		"lon", result.Point.Longitude, "lat", result.Point.Latitude)
	return nil
}
