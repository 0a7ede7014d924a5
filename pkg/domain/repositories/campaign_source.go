package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/inventory/pkg/domain/entities"
)

// CampaignSource is the read-only port to the external Campaign Service.
// The engine consumes multipliers; campaign ownership stays on the other
// side of this boundary.
type CampaignSource interface {
	// ActiveMultiplier returns the maximum multiplier valid at the given
	// time across campaigns scoped to the item or its category, and 1.0
	// when none is valid.
	ActiveMultiplier(ctx context.Context, itemID entities.ItemID, category string, now time.Time) (decimal.Decimal, error)
}
