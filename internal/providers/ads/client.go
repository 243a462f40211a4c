package ads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"leadpulse/internal/domain"
	"leadpulse/internal/infra"
)

// ErrMissingToken indicates that the client was configured without a developer token.
var ErrMissingToken = errors.New("ads: developer token is required")

// Options configures the ads reporting client.
type Options struct {
	DeveloperToken string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the ads reporting API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type searchRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type searchResponse struct {
	Results []struct {
		Date        string  `json:"date"`
		SpendMicros int64   `json:"spend_micros"`
		Impressions int     `json:"impressions"`
		Clicks      int     `json:"clicks"`
		Conversions float64 `json:"conversions"`
	} `json:"results"`
}

// NewClient constructs an ads client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	if opts.DeveloperToken == "" {
		return nil, ErrMissingToken
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 45 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		token:      opts.DeveloperToken,
		baseURL:    opts.BaseURL,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// Fetch pulls campaign performance for the client's ads account over the range.
func (c *Client) Fetch(ctx context.Context, client domain.Client, r domain.Range) (domain.ProviderMetrics, error) {
	if client.AdsCustomerID == "" {
		return domain.ProviderMetrics{}, domain.ErrNotConfigured
	}

	body, err := json.Marshal(searchRequest{
		StartDate: r.Start.Format(domain.DateLayout),
		EndDate:   r.End.Format(domain.DateLayout),
	})
	if err != nil {
		return domain.ProviderMetrics{}, fmt.Errorf("ads: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/customers/%s/metrics:search", c.baseURL, client.AdsCustomerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.ProviderMetrics{}, fmt.Errorf("ads: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return domain.ProviderMetrics{}, fmt.Errorf("%w: ads request", domain.ErrTimeout)
		}
		return domain.ProviderMetrics{}, fmt.Errorf("%w: ads request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.ProviderMetrics{}, fmt.Errorf("%w: ads responded %d", domain.ErrAuth, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.ProviderMetrics{}, fmt.Errorf("%w: ads responded %d: %s", domain.ErrUpstream, resp.StatusCode, snippet)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.ProviderMetrics{}, fmt.Errorf("%w: ads decode response: %v", domain.ErrUpstream, err)
	}

	var m domain.ProviderMetrics
	for _, row := range parsed.Results {
		m.AdSpend += float64(row.SpendMicros) / 1e6
		m.AdImpressions += row.Impressions
		m.AdClicks += row.Clicks
		m.AdConversions += int(row.Conversions)
	}
	if c.logger != nil {
		c.logger.Debug().
			Str("customer_id", client.AdsCustomerID).
			Int("rows", len(parsed.Results)).
			Msg("ads: fetched campaign metrics")
	}
	return m, nil
}
