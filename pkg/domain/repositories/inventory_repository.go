package repositories

import (
	"context"

	"github.com/vsinha/inventory/pkg/domain/entities"
)

// InventoryRepository provides access to per-item inventory records.
// Implementations must make UpdateQuantities a compare-and-swap on the
// record version so the coordinator's check-then-act stays atomic per
// item; a version mismatch returns entities.ErrConcurrencyConflict.
type InventoryRepository interface {
	Create(ctx context.Context, record *entities.InventoryRecord) error
	Get(ctx context.Context, itemID entities.ItemID) (*entities.InventoryRecord, error)
	List(ctx context.Context) ([]*entities.InventoryRecord, error)

	// UpdateQuantities replaces the correctness-critical state iff the
	// stored version still equals expectedVersion, bumping the version.
	UpdateQuantities(
		ctx context.Context,
		itemID entities.ItemID,
		expectedVersion int64,
		total, reserved entities.Quantity,
		performance entities.Performance,
	) error

	// UpdateDerived replaces the advisory projections. It is not version
	// checked: derived fields are recomputed wholesale and stale writes
	// are tolerated per the concurrency model.
	UpdateDerived(
		ctx context.Context,
		itemID entities.ItemID,
		forecast entities.DemandForecast,
		urgencyScore int,
		alerts []entities.Alert,
	) error

	UpdateSettings(
		ctx context.Context,
		itemID entities.ItemID,
		thresholds entities.Thresholds,
		strategy entities.RestockStrategy,
		seasonal entities.SeasonalProfile,
	) error

	UpdateStatus(ctx context.Context, itemID entities.ItemID, status entities.RecordStatus) error
}
