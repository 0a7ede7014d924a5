package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CampaignID references a campaign in the external Campaign Service
type CampaignID string

// CampaignMultiplier is a time-bounded demand scaling factor supplied by
// the Campaign Service, scoped to either one item or a whole category.
// The engine reads multipliers; it never creates or mutates campaigns.
type CampaignMultiplier struct {
	ID         CampaignID
	ItemID     ItemID // empty when category-scoped
	Category   string // empty when item-scoped
	Multiplier decimal.Decimal
	ValidFrom  time.Time
	ValidUntil time.Time
}

// NewCampaignMultiplier creates a validated campaign multiplier
func NewCampaignMultiplier(id CampaignID, itemID ItemID, category string, multiplier decimal.Decimal, validFrom, validUntil time.Time) (*CampaignMultiplier, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: campaign id cannot be empty", ErrValidation)
	}
	if itemID == "" && category == "" {
		return nil, fmt.Errorf("%w: campaign must be scoped to an item or a category", ErrValidation)
	}
	if !multiplier.IsPositive() {
		return nil, fmt.Errorf("%w: multiplier must be positive, got %s", ErrValidation, multiplier)
	}
	if validUntil.Before(validFrom) {
		return nil, fmt.Errorf("%w: campaign validity window ends before it starts", ErrValidation)
	}

	return &CampaignMultiplier{
		ID:         id,
		ItemID:     itemID,
		Category:   category,
		Multiplier: multiplier,
		ValidFrom:  validFrom,
		ValidUntil: validUntil,
	}, nil
}

// ActiveAt reports whether the multiplier is valid at the given time,
// inclusive on both window edges.
func (c *CampaignMultiplier) ActiveAt(now time.Time) bool {
	return !now.Before(c.ValidFrom) && !now.After(c.ValidUntil)
}

// AppliesTo reports whether the multiplier covers an item
func (c *CampaignMultiplier) AppliesTo(itemID ItemID, category string) bool {
	if c.ItemID != "" {
		return c.ItemID == itemID
	}
	return c.Category != "" && c.Category == category
}
