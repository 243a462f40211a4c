package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"leadpulse/internal/domain"
	"leadpulse/internal/infra"
)

// ErrMissingToken indicates that the client was configured without credentials.
var ErrMissingToken = errors.New("analytics: access token is required")

// Options configures the web analytics reporting client.
type Options struct {
	Token          string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the analytics data API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type runReportRequest struct {
	DateRanges []dateRange `json:"dateRanges"`
	Metrics    []metricRef `json:"metrics"`
}

type dateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type metricRef struct {
	Name string `json:"name"`
}

type runReportResponse struct {
	Totals struct {
		Sessions  int `json:"sessions"`
		Users     int `json:"totalUsers"`
		Pageviews int `json:"screenPageViews"`
		FormFills int `json:"keyEvents"`
	} `json:"totals"`
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

// Fetch runs a totals report against the client's analytics property.
func (c *Client) Fetch(ctx context.Context, client domain.Client, r domain.Range) (domain.ProviderMetrics, error) {
	if client.AnalyticsPropertyID == "" {
		return domain.ProviderMetrics{}, domain.ErrNotConfigured
	}

	payload := runReportRequest{
		DateRanges: []dateRange{{
			StartDate: r.Start.Format(domain.DateLayout),
			EndDate:   r.End.Format(domain.DateLayout),
		}},
		Metrics: []metricRef{
			{Name: "sessions"},
			{Name: "totalUsers"},
			{Name: "screenPageViews"},
			{Name: "keyEvents"},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.ProviderMetrics{}, fmt.Errorf("analytics: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/properties/%s:runReport", c.baseURL, client.AnalyticsPropertyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.ProviderMetrics{}, fmt.Errorf("analytics: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return domain.ProviderMetrics{}, fmt.Errorf("%w: analytics request", domain.ErrTimeout)
		}
		return domain.ProviderMetrics{}, fmt.Errorf("%w: analytics request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return domain.ProviderMetrics{}, fmt.Errorf("%w: analytics responded %d", domain.ErrAuth, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.ProviderMetrics{}, fmt.Errorf("%w: analytics responded %d", domain.ErrUpstream, resp.StatusCode)
	}

	var parsed runReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.ProviderMetrics{}, fmt.Errorf("%w: analytics decode response: %v", domain.ErrUpstream, err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("property_id", client.AnalyticsPropertyID).
			Int("sessions", parsed.Totals.Sessions).
			Msg("analytics: fetched report totals")
	}
	return domain.ProviderMetrics{
		Sessions:  parsed.Totals.Sessions,
		Users:     parsed.Totals.Users,
		Pageviews: parsed.Totals.Pageviews,
		FormFills: parsed.Totals.FormFills,
	}, nil
}
