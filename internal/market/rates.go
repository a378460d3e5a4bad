package market

import (
	"context"
	"encoding/json"
	"fmt"

	"smart-send/internal/api"
	"smart-send/internal/role"
)

// DefaultRatesEndpoint serves open.er-api.com style latest-rate documents.
const DefaultRatesEndpoint = "https://open.er-api.com/v6/latest"

type latestRates struct {
	Result     string             `json:"result"`
	BaseCode   string             `json:"base_code"`
	UpdatedUTC string             `json:"time_last_update_utc"`
	Rates      map[string]float64 `json:"rates"`
	ErrorType  string             `json:"error-type"`
}

// RateLookup reports the latest spot rate for a corridor's currency pair.
type RateLookup struct {
	client *api.Client
	cache  *Cache
}

var _ role.Capability = (*RateLookup)(nil)

// NewRateLookup uses client for requests relative to the rates endpoint. cache may be nil.
func NewRateLookup(client *api.Client, cache *Cache) *RateLookup {
	return &RateLookup{client: client, cache: cache}
}

// Name is the section title used in the FX stage's system prompt.
func (r *RateLookup) Name() string {
	return "exchange_rates"
}

// Description is listed under the role's available tools.
func (r *RateLookup) Description() string {
	return "latest spot exchange rate between the corridor's source and destination currencies"
}

// Lookup returns "" without error for corridors whose currencies are unknown.
func (r *RateLookup) Lookup(ctx context.Context, corridor string) (string, error) {
	base, quote, ok := ResolveCorridor(corridor)
	if !ok {
		return "", nil
	}

	latest, err := r.latest(ctx, base)
	if err != nil {
		return "", err
	}
	rate, ok := latest.Rates[quote]
	if !ok {
		return "", fmt.Errorf("no %s rate in %s table", quote, base)
	}

	snapshot := fmt.Sprintf("%s/%s spot rate: %.4f", base, quote, rate)
	if latest.UpdatedUTC != "" {
		snapshot += " (updated " + latest.UpdatedUTC + ")"
	}
	return snapshot, nil
}

func (r *RateLookup) latest(ctx context.Context, base string) (*latestRates, error) {
	body, err := r.cache.GetOrFetch("latest:"+base, func() ([]byte, error) {
		resp, err := r.client.Get(ctx, "/"+base)
		if err != nil {
			return nil, fmt.Errorf("fetch %s rates: %w", base, err)
		}
		var payload latestRates
		if err := resp.ParseJSON(&payload); err != nil {
			return nil, err
		}
		if payload.Result != "success" {
			return nil, fmt.Errorf("rates api for %s: %s", base, payload.ErrorType)
		}
		return resp.Body, nil
	})
	if err != nil {
		return nil, err
	}

	var out latestRates
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode cached %s rates: %w", base, err)
	}
	return &out, nil
}
