package campaign

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/vsinha/inventory/pkg/domain/entities"
	"github.com/vsinha/inventory/pkg/domain/repositories"
)

// Client resolves campaign multipliers from the external Campaign
// Service over HTTP. The engine only ever reads through this boundary.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the given base URL
func NewClient(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetRetryCount(2)
	return &Client{http: c}
}

// Verify interface compliance
var _ repositories.CampaignSource = (*Client)(nil)

type multiplierResponse struct {
	Multiplier decimal.Decimal `json:"multiplier"`
}

// ActiveMultiplier asks the Campaign Service for the maximum multiplier
// valid at the given time for the item or its category. A 404 means no
// campaign applies and maps to 1.0.
func (c *Client) ActiveMultiplier(ctx context.Context, itemID entities.ItemID, category string, now time.Time) (decimal.Decimal, error) {
	var body multiplierResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"item_id":  string(itemID),
			"category": category,
			"at":       now.UTC().Format(time.RFC3339),
		}).
		SetResult(&body).
		Get("/api/campaigns/active-multiplier")
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("campaign service request failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		if !body.Multiplier.IsPositive() {
			return decimal.Decimal{}, fmt.Errorf("%w: campaign service returned non-positive multiplier %s",
				entities.ErrValidation, body.Multiplier)
		}
		return body.Multiplier, nil
	case http.StatusNotFound:
		return decimal.NewFromInt(1), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("campaign service returned status %d", resp.StatusCode())
	}
}
