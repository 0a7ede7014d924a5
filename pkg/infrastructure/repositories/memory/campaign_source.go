package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/inventory/pkg/domain/entities"
	"github.com/vsinha/inventory/pkg/domain/repositories"
)

// CampaignSource serves campaign multipliers from a fixed in-memory set,
// for tests and CSV-seeded deployments without a Campaign Service.
type CampaignSource struct {
	campaigns []*entities.CampaignMultiplier
	mutex     sync.RWMutex
}

// NewCampaignSource creates a source over the given campaigns
func NewCampaignSource(campaigns []*entities.CampaignMultiplier) *CampaignSource {
	return &CampaignSource{campaigns: campaigns}
}

// Verify interface compliance
var _ repositories.CampaignSource = (*CampaignSource)(nil)

// Load replaces the campaign set
func (s *CampaignSource) Load(campaigns []*entities.CampaignMultiplier) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.campaigns = campaigns
}

// ActiveMultiplier returns the maximum currently-valid multiplier scoped
// to the item or its category, and 1.0 when none is valid
func (s *CampaignSource) ActiveMultiplier(ctx context.Context, itemID entities.ItemID, category string, now time.Time) (decimal.Decimal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var best decimal.Decimal
	found := false
	for _, c := range s.campaigns {
		if !c.ActiveAt(now) || !c.AppliesTo(itemID, category) {
			continue
		}
		if !found || c.Multiplier.GreaterThan(best) {
			best = c.Multiplier
			found = true
		}
	}
	if !found {
		return decimal.NewFromInt(1), nil
	}
	return best, nil
}
