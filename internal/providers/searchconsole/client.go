package searchconsole

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"leadpulse/internal/domain"
	"leadpulse/internal/infra"
)

// ErrMissingToken indicates that the client was configured without credentials.
var ErrMissingToken = errors.New("searchconsole: access token is required")

// Options configures the Search Console query client.
type Options struct {
	Token          string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Search Console search analytics API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type queryRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	RowLimit  int    `json:"rowLimit"`
}

type queryResponse struct {
	Rows []struct {
		Clicks      float64 `json:"clicks"`
		Impressions float64 `json:"impressions"`
		Position    float64 `json:"position"`
	} `json:"rows"`
}

func NewClient(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, ErrMissingToken
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		token:      opts.Token,
		baseURL:    opts.BaseURL,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// Fetch queries search analytics for the client's verified site.
func (c *Client) Fetch(ctx context.Context, client domain.Client, r domain.Range) (domain.ProviderMetrics, error) {
	if client.SearchConsoleSite == "" {
		return domain.ProviderMetrics{}, domain.ErrNotConfigured
	}

	body, err := json.Marshal(queryRequest{
		StartDate: r.Start.Format(domain.DateLayout),
		EndDate:   r.End.Format(domain.DateLayout),
		RowLimit:  1000,
	})
	if err != nil {
		return domain.ProviderMetrics{}, fmt.Errorf("searchconsole: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/sites/%s/searchAnalytics/query", c.baseURL, url.PathEscape(client.SearchConsoleSite))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.ProviderMetrics{}, fmt.Errorf("searchconsole: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return domain.ProviderMetrics{}, fmt.Errorf("%w: searchconsole request", domain.ErrTimeout)
		}
		return domain.ProviderMetrics{}, fmt.Errorf("%w: searchconsole request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return domain.ProviderMetrics{}, fmt.Errorf("%w: searchconsole responded %d", domain.ErrAuth, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.ProviderMetrics{}, fmt.Errorf("%w: searchconsole responded %d", domain.ErrUpstream, resp.StatusCode)
	}

	var parsed queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.ProviderMetrics{}, fmt.Errorf("%w: searchconsole decode response: %v", domain.ErrUpstream, err)
	}

	var m domain.ProviderMetrics
	var positionSum float64
	for _, row := range parsed.Rows {
		m.SearchClicks += int(row.Clicks)
		m.SearchImpressions += int(row.Impressions)
		positionSum += row.Position
	}
	if len(parsed.Rows) > 0 {
		m.SearchAvgPosition = positionSum / float64(len(parsed.Rows))
	}
	if c.logger != nil {
		c.logger.Debug().
			Str("site", client.SearchConsoleSite).
			Int("rows", len(parsed.Rows)).
			Msg("searchconsole: fetched search analytics")
	}
	return m, nil
}
