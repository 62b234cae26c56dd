// Package pricing is the outbound adapter for the pricing collaborator.
// The collaborator owns courier rate cards and commission policy; this
// client only fetches snapshots and asks for splits.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/shopspring/decimal"
)

const requestTimeout = 5 * time.Second

// Client calls the pricing service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a pricing client for the given service base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type rateSnapshotDTO struct {
	BaseFare  string  `json:"base_fare"`
	PerKmRate string  `json:"per_km_rate"`
	Rating    float64 `json:"rating"`
	Currency  string  `json:"currency"`
}

type commissionRequestDTO struct {
	Amount string `json:"amount"`
}

type commissionResponseDTO struct {
	Gross      string `json:"gross"`
	Commission string `json:"commission"`
	Net        string `json:"net"`
}

// GetPricing retrieves the current rate snapshot for a courier.
func (c *Client) GetPricing(ctx context.Context, courierID kernel.UUID) (ports.RateSnapshot, error) {
	url := fmt.Sprintf("%s/api/v1/couriers/%s/pricing", c.baseURL, courierID.String())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.RateSnapshot{}, fmt.Errorf("build pricing request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return ports.RateSnapshot{}, fmt.Errorf("call pricing service: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return ports.RateSnapshot{}, fmt.Errorf("pricing service returned %d", response.StatusCode)
	}

	var dto rateSnapshotDTO
	if err := json.NewDecoder(response.Body).Decode(&dto); err != nil {
		return ports.RateSnapshot{}, fmt.Errorf("decode pricing response: %w", err)
	}

	baseFare, err := decimal.NewFromString(dto.BaseFare)
	if err != nil {
		return ports.RateSnapshot{}, fmt.Errorf("invalid base fare %q: %w", dto.BaseFare, err)
	}
	perKmRate, err := decimal.NewFromString(dto.PerKmRate)
	if err != nil {
		return ports.RateSnapshot{}, fmt.Errorf("invalid per km rate %q: %w", dto.PerKmRate, err)
	}

	return ports.RateSnapshot{
		CourierID: courierID,
		BaseFare:  baseFare,
		PerKmRate: perKmRate,
		Rating:    dto.Rating,
		Currency:  dto.Currency,
	}, nil
}

// CalculateCommission asks the pricing service to split the amount into
// commission and net earning.
func (c *Client) CalculateCommission(
	ctx context.Context,
	courierID kernel.UUID,
	amount decimal.Decimal,
) (ports.EarningBreakdown, error) {
	url := fmt.Sprintf("%s/api/v1/couriers/%s/commission", c.baseURL, courierID.String())

	payload, err := json.Marshal(commissionRequestDTO{Amount: amount.String()})
	if err != nil {
		return ports.EarningBreakdown{}, fmt.Errorf("encode commission request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(payload)))
	if err != nil {
		return ports.EarningBreakdown{}, fmt.Errorf("build commission request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return ports.EarningBreakdown{}, fmt.Errorf("call pricing service: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return ports.EarningBreakdown{}, fmt.Errorf("pricing service returned %d", response.StatusCode)
	}

	var dto commissionResponseDTO
	if err := json.NewDecoder(response.Body).Decode(&dto); err != nil {
		return ports.EarningBreakdown{}, fmt.Errorf("decode commission response: %w", err)
	}

	gross, err := decimal.NewFromString(dto.Gross)
	if err != nil {
		return ports.EarningBreakdown{}, fmt.Errorf("invalid gross %q: %w", dto.Gross, err)
	}
	commission, err := decimal.NewFromString(dto.Commission)
	if err != nil {
		return ports.EarningBreakdown{}, fmt.Errorf("invalid commission %q: %w", dto.Commission, err)
	}
	net, err := decimal.NewFromString(dto.Net)
	if err != nil {
		return ports.EarningBreakdown{}, fmt.Errorf("invalid net %q: %w", dto.Net, err)
	}

	return ports.EarningBreakdown{Gross: gross, Commission: commission, Net: net}, nil
}
