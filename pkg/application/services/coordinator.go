package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/inventory/pkg/domain/entities"
	"github.com/vsinha/inventory/pkg/domain/repositories"
	domainsvc "github.com/vsinha/inventory/pkg/domain/services"
	"github.com/vsinha/inventory/pkg/infrastructure/events"
)

// CoordinatorConfig holds the mutation-path tuning parameters
type CoordinatorConfig struct {
	// MaxRetries bounds the optimistic-concurrency retry loop
	MaxRetries int
}

// DefaultCoordinatorConfig returns the default retry budget
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{MaxRetries: 5}
}

// StockCoordinator is the only component that mutates live quantities.
// Every mutation is a bounded-retry optimistic loop: read the record,
// validate the business rule, and swap the new quantities in keyed on the
// record version. A competing write fails the swap and the loop re-reads,
// so the availability check and its decrement apply atomically per item
// while operations on different items proceed in parallel.
//
// Derived fields (forecast, urgency, alerts) recompute after the durable
// quantity write; their failure is logged and retried on the next
// mutation, never failing the mutation itself.
type StockCoordinator struct {
	records   repositories.InventoryRepository
	ledger    repositories.LedgerRepository
	forecasts *domainsvc.ForecastCalculator
	scorer    *domainsvc.UrgencyScorer
	alerts    *domainsvc.AlertEvaluator
	planner   *domainsvc.RestockPlanner
	bus       events.EventBus
	logger    *zap.Logger
	config    CoordinatorConfig
	clock     func() time.Time
}

// NewStockCoordinator creates a coordinator with default configuration
func NewStockCoordinator(
	records repositories.InventoryRepository,
	ledger repositories.LedgerRepository,
	forecasts *domainsvc.ForecastCalculator,
	scorer *domainsvc.UrgencyScorer,
	alerts *domainsvc.AlertEvaluator,
	planner *domainsvc.RestockPlanner,
	bus events.EventBus,
	logger *zap.Logger,
) *StockCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockCoordinator{
		records:   records,
		ledger:    ledger,
		forecasts: forecasts,
		scorer:    scorer,
		alerts:    alerts,
		planner:   planner,
		bus:       bus,
		logger:    logger,
		config:    DefaultCoordinatorConfig(),
		clock:     time.Now,
	}
}

// WithClock overrides the time source for deterministic tests
func (c *StockCoordinator) WithClock(clock func() time.Time) *StockCoordinator {
	c.clock = clock
	return c
}

// WithConfig overrides the coordinator configuration
func (c *StockCoordinator) WithConfig(config CoordinatorConfig) *StockCoordinator {
	if config.MaxRetries > 0 {
		c.config = config
	}
	return c
}

// Provision creates a tracked record at zero stock
func (c *StockCoordinator) Provision(
	ctx context.Context,
	itemID entities.ItemID,
	category string,
	thresholds entities.Thresholds,
	strategy entities.RestockStrategy,
	seasonal entities.SeasonalProfile,
) (*entities.InventoryRecord, error) {
	record, err := entities.NewInventoryRecord(itemID, category, thresholds, strategy)
	if err != nil {
		return nil, err
	}
	record.Seasonal = seasonal
	record.CreatedAt = c.clock()
	record.UpdatedAt = record.CreatedAt

	if err := c.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to provision %s: %w", itemID, err)
	}

	c.publish(events.NewRecordProvisionedEvent(itemID, category))
	return record, nil
}

// Retire soft-deletes a record: further reservations are rejected while
// historical reads stay available.
func (c *StockCoordinator) Retire(ctx context.Context, itemID entities.ItemID) error {
	if _, err := c.records.Get(ctx, itemID); err != nil {
		return err
	}
	if err := c.records.UpdateStatus(ctx, itemID, entities.StatusDiscontinued); err != nil {
		return fmt.Errorf("failed to retire %s: %w", itemID, err)
	}
	c.publish(events.NewRecordRetiredEvent(itemID))
	return nil
}

// Reserve places a temporary hold on available stock for an order. Fails
// fast with ErrInsufficientStock; the caller retries or cancels, the
// engine never queues.
func (c *StockCoordinator) Reserve(ctx context.Context, itemID entities.ItemID, qty entities.Quantity, orderRef string) error {
	if qty <= 0 {
		return fmt.Errorf("%w: reserve quantity must be positive, got %d", entities.ErrValidation, qty)
	}
	_, err := c.mutate(ctx, itemID, entities.ActionReserve, qty, mutation{
		reason:      "Stock reserved for order",
		actorID:     "order-service",
		orderRef:    orderRef,
		requireLive: true,
	})
	return err
}

// Release reverses a prior reservation when an order is cancelled
func (c *StockCoordinator) Release(ctx context.Context, itemID entities.ItemID, qty entities.Quantity, orderRef string) error {
	if qty <= 0 {
		return fmt.Errorf("%w: release quantity must be positive, got %d", entities.ErrValidation, qty)
	}
	_, err := c.mutate(ctx, itemID, entities.ActionRelease, qty, mutation{
		reason:   "Stock released from cancelled order",
		actorID:  "order-service",
		orderRef: orderRef,
	})
	return err
}

// Fulfill converts a reservation into a permanent stock decrement
func (c *StockCoordinator) Fulfill(ctx context.Context, itemID entities.ItemID, qty entities.Quantity, orderRef string) error {
	if qty <= 0 {
		return fmt.Errorf("%w: fulfill quantity must be positive, got %d", entities.ErrValidation, qty)
	}
	_, err := c.mutate(ctx, itemID, entities.ActionFulfill, qty, mutation{
		reason:   "Reservation fulfilled",
		actorID:  "order-service",
		orderRef: orderRef,
	})
	return err
}

// AdjustStock applies a direct administrative mutation outside the
// reserve/fulfill cycle and returns the new total stock.
func (c *StockCoordinator) AdjustStock(
	ctx context.Context,
	itemID entities.ItemID,
	qty entities.Quantity,
	action entities.MovementAction,
	reason, actorID string,
	campaignID entities.CampaignID,
) (entities.Quantity, error) {
	if !action.AdjustmentAction() {
		return 0, fmt.Errorf("%w: action %q is not an administrative adjustment", entities.ErrValidation, action)
	}
	if qty == 0 {
		return 0, fmt.Errorf("%w: quantity cannot be zero", entities.ErrValidation)
	}
	if qty < 0 && action != entities.ActionAdjustment {
		return 0, fmt.Errorf("%w: negative quantity only valid for adjustment", entities.ErrValidation)
	}

	return c.mutate(ctx, itemID, action, qty, mutation{
		reason:     reason,
		actorID:    actorID,
		campaignID: campaignID,
	})
}

// UpdateThresholds replaces an item's thresholds and re-projects the
// derived fields so edits immediately retire alerts that no longer hold.
func (c *StockCoordinator) UpdateThresholds(ctx context.Context, itemID entities.ItemID, thresholds entities.Thresholds) error {
	record, err := c.records.Get(ctx, itemID)
	if err != nil {
		return err
	}
	if err := c.records.UpdateSettings(ctx, itemID, thresholds, record.Strategy, record.Seasonal); err != nil {
		return fmt.Errorf("failed to update thresholds for %s: %w", itemID, err)
	}
	c.recomputeDerived(ctx, itemID)
	return nil
}

// UpdateStrategy replaces an item's restock strategy
func (c *StockCoordinator) UpdateStrategy(ctx context.Context, itemID entities.ItemID, strategy entities.RestockStrategy) error {
	record, err := c.records.Get(ctx, itemID)
	if err != nil {
		return err
	}
	if strategy.ReorderQuantity < 0 || strategy.SafetyStock < 0 || strategy.SupplierLeadTimeDays < 0 {
		return fmt.Errorf("%w: restock strategy fields cannot be negative", entities.ErrValidation)
	}
	if err := c.records.UpdateSettings(ctx, itemID, record.Thresholds, strategy, record.Seasonal); err != nil {
		return fmt.Errorf("failed to update strategy for %s: %w", itemID, err)
	}
	c.recomputeDerived(ctx, itemID)
	return nil
}

// RefreshForecasts re-projects every tracked item. Driven periodically so
// stale campaign effects decay even without stock movements.
func (c *StockCoordinator) RefreshForecasts(ctx context.Context) error {
	records, err := c.records.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records for refresh: %w", err)
	}
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.recomputeDerived(ctx, record.ItemID)
	}
	return nil
}

type mutation struct {
	reason      string
	actorID     string
	orderRef    string
	campaignID  entities.CampaignID
	requireLive bool
}

// mutate runs one check-then-act unit under the optimistic retry loop.
// Either the whole unit applies (quantities swapped, ledger appended) or
// nothing does; an abandoned context leaves no partial state.
func (c *StockCoordinator) mutate(
	ctx context.Context,
	itemID entities.ItemID,
	action entities.MovementAction,
	qty entities.Quantity,
	meta mutation,
) (entities.Quantity, error) {
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		record, err := c.records.Get(ctx, itemID)
		if err != nil {
			return 0, err
		}
		if meta.requireLive && record.Status == entities.StatusDiscontinued {
			return 0, fmt.Errorf("%w: %s", entities.ErrDiscontinued, itemID)
		}

		newTotal, newReserved, err := entities.ApplyMovement(action, qty, record.TotalStock, record.ReservedStock)
		if err != nil {
			return 0, err
		}

		performance := record.Performance
		if action == entities.ActionSale {
			if record.TotalStock == 0 {
				performance.Stockouts++
			}
			if newTotal < record.Thresholds.LowStock {
				performance.LostSales += qty
			}
		}

		err = c.records.UpdateQuantities(ctx, itemID, record.Version, newTotal, newReserved, performance)
		if errors.Is(err, entities.ErrConcurrencyConflict) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("failed to update quantities for %s: %w", itemID, err)
		}

		movement := &entities.StockMovement{
			ID:            entities.NewMovementID(),
			ItemID:        itemID,
			Timestamp:     c.clock(),
			Action:        action,
			Quantity:      qty,
			Reason:        meta.reason,
			ActorID:       meta.actorID,
			OrderRef:      meta.orderRef,
			CampaignID:    string(meta.campaignID),
			PreviousStock: record.TotalStock,
			NewStock:      newTotal,
		}
		if _, err := c.ledger.Append(ctx, movement); err != nil {
			// The quantity write is already durable; a ledger failure is
			// an accounting gap, not a rollback. Surface it loudly.
			c.logger.Error("ledger append failed after quantity update",
				zap.String("item_id", string(itemID)),
				zap.String("action", string(action)),
				zap.Error(err))
			return newTotal, fmt.Errorf("failed to append ledger entry for %s: %w", itemID, err)
		}

		c.publish(events.NewStockChangedEvent(*movement, newTotal, newReserved))
		c.recomputeDerived(ctx, itemID)

		return newTotal, nil
	}

	return 0, fmt.Errorf("%w: %s after %d attempts", entities.ErrConcurrencyConflict, itemID, c.config.MaxRetries)
}

// recomputeDerived re-projects forecast, urgency score and the alert set
// from the ledger and current thresholds. Failures are logged and left
// for the next mutation or refresh pass.
func (c *StockCoordinator) recomputeDerived(ctx context.Context, itemID entities.ItemID) {
	now := c.clock()

	record, err := c.records.Get(ctx, itemID)
	if err != nil {
		c.logger.Warn("derived recompute skipped",
			zap.String("item_id", string(itemID)), zap.Error(err))
		return
	}

	movements, err := c.ledger.MovementsSince(ctx, itemID, c.forecasts.WindowStart(now))
	if err != nil {
		c.logger.Warn("derived recompute failed reading ledger window",
			zap.String("item_id", string(itemID)), zap.Error(err))
		return
	}

	forecast, err := c.forecasts.Compute(ctx, record, movements, now)
	if err != nil {
		c.logger.Warn("forecast recompute failed",
			zap.String("item_id", string(itemID)), zap.Error(err))
		return
	}

	urgency := c.scorer.Score(record.TotalStock, record.Thresholds, forecast.PredictedDemand)
	alerts := c.alerts.Evaluate(record.TotalStock, record.Thresholds, now)

	if err := c.records.UpdateDerived(ctx, itemID, forecast, urgency, alerts); err != nil {
		c.logger.Warn("derived field write failed",
			zap.String("item_id", string(itemID)), zap.Error(err))
		return
	}

	c.publishAlertTransitions(itemID, record.Alerts, alerts)
	c.publish(events.NewForecastUpdatedEvent(itemID, forecast, urgency))

	refreshed := record.Clone()
	refreshed.Forecast = forecast
	refreshed.UrgencyScore = urgency
	if c.planner.ShouldReorder(refreshed) {
		c.publish(events.NewReorderSuggestedEvent(itemID, c.planner.RecommendedQuantity(refreshed), urgency))
	}
}

func (c *StockCoordinator) publishAlertTransitions(itemID entities.ItemID, before, after []entities.Alert) {
	was := make(map[entities.AlertType]bool, len(before))
	for _, a := range before {
		was[a.Type] = true
	}
	is := make(map[entities.AlertType]bool, len(after))
	for _, a := range after {
		is[a.Type] = true
		if !was[a.Type] {
			c.publish(events.NewAlertRaisedEvent(itemID, a))
		}
	}
	for _, a := range before {
		if !is[a.Type] {
			c.publish(events.NewAlertClearedEvent(itemID, a.Type))
		}
	}
}

func (c *StockCoordinator) publish(event events.Event) {
	if c.bus != nil {
		c.bus.Publish(event)
	}
}
