package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vsinha/inventory/pkg/domain/entities"
	"github.com/vsinha/inventory/pkg/domain/repositories"
)

// LedgerRepository provides in-memory append-only movement storage with
// per-item monotonically increasing sequences.
type LedgerRepository struct {
	movements map[entities.ItemID][]*entities.StockMovement
	sequences map[entities.ItemID]int64
	mutex     sync.RWMutex
}

// NewLedgerRepository creates an empty in-memory ledger
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		movements: make(map[entities.ItemID][]*entities.StockMovement),
		sequences: make(map[entities.ItemID]int64),
	}
}

// Verify interface compliance
var _ repositories.LedgerRepository = (*LedgerRepository)(nil)

// Append stores a movement, assigning the next per-item sequence. The
// stored entry is a copy; appended movements are immutable.
func (r *LedgerRepository) Append(ctx context.Context, movement *entities.StockMovement) (entities.MovementID, error) {
	if movement.Quantity == 0 {
		return "", fmt.Errorf("%w: quantity cannot be zero", entities.ErrValidation)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.sequences[movement.ItemID]++
	entry := *movement
	entry.Sequence = r.sequences[movement.ItemID]
	if entry.ID == "" {
		entry.ID = entities.NewMovementID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	r.movements[movement.ItemID] = append(r.movements[movement.ItemID], &entry)
	return entry.ID, nil
}

// History returns movements newest-first within the page bounds
func (r *LedgerRepository) History(ctx context.Context, itemID entities.ItemID, page repositories.Page) ([]*entities.StockMovement, error) {
	page = page.Normalize()

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	entries := r.movements[itemID]
	var result []*entities.StockMovement
	// Entries are stored oldest-first; walk backwards for newest-first.
	for i := len(entries) - 1 - page.Offset; i >= 0 && len(result) < page.Limit; i-- {
		entry := *entries[i]
		result = append(result, &entry)
	}
	return result, nil
}

// MovementsSince returns movements at or after the cutoff, oldest first
func (r *LedgerRepository) MovementsSince(ctx context.Context, itemID entities.ItemID, since time.Time) ([]*entities.StockMovement, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []*entities.StockMovement
	for _, m := range r.movements[itemID] {
		if m.Timestamp.Before(since) {
			continue
		}
		entry := *m
		result = append(result, &entry)
	}
	return result, nil
}
