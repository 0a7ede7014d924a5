package repositories

import (
	"context"
	"time"

	"github.com/vsinha/inventory/pkg/domain/entities"
)

// MaxPageSize caps history reads; unbounded ranges are disallowed
const MaxPageSize = 200

// Page bounds a history read
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps a page to valid bounds
func (p Page) Normalize() Page {
	if p.Limit <= 0 || p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// LedgerRepository provides access to the append-only stock movement log,
// the source of truth for current quantities. Entries are immutable once
// appended and totally ordered per item by (Timestamp, Sequence).
type LedgerRepository interface {
	// Append stores a movement, assigning its per-item sequence and
	// timestamp. Rejects movements for unknown items.
	Append(ctx context.Context, movement *entities.StockMovement) (entities.MovementID, error)

	// History returns movements newest-first within the page bounds.
	History(ctx context.Context, itemID entities.ItemID, page Page) ([]*entities.StockMovement, error)

	// MovementsSince returns movements at or after the cutoff, oldest
	// first. Feeds the trailing forecast window.
	MovementsSince(ctx context.Context, itemID entities.ItemID, since time.Time) ([]*entities.StockMovement, error)
}
