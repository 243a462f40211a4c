package gbp

import (
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
var ErrMissingToken = errors.New("gbp: access token is required")

// Options configures the Business Profile performance client.
type Options struct {
	Token          string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Business Profile performance API.
// These are historically the slowest calls of the whole connector set, so the
// default timeout is generous.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type timeSeriesResponse struct {
	Series []struct {
		Metric string `json:"dailyMetric"`
		Points []struct {
			Date  string `json:"date"`
			Value int    `json:"value"`
		} `json:"datedValues"`
	} `json:"multiDailyMetricTimeSeries"`
}

func NewClient(opts Options) (*Client, error) {
	if opts.Token == "" {
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
		token:      opts.Token,
		baseURL:    opts.BaseURL,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// Fetch pulls daily performance series for the client's location.
func (c *Client) Fetch(ctx context.Context, client domain.Client, r domain.Range) (domain.ProviderMetrics, error) {
	if client.GBPLocationID == "" {
		return domain.ProviderMetrics{}, domain.ErrNotConfigured
	}

	q := url.Values{}
	q.Set("startDate", r.Start.Format(domain.DateLayout))
	q.Set("endDate", r.End.Format(domain.DateLayout))
	for _, metric := range []string{
		"BUSINESS_IMPRESSIONS", "BUSINESS_SEARCHES", "CALL_CLICKS", "BUSINESS_DIRECTION_REQUESTS",
	} {
		q.Add("dailyMetrics", metric)
	}

	endpoint := fmt.Sprintf("%s/locations/%s:fetchMultiDailyMetricsTimeSeries?%s", c.baseURL, client.GBPLocationID, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.ProviderMetrics{}, fmt.Errorf("gbp: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return domain.ProviderMetrics{}, fmt.Errorf("%w: gbp request", domain.ErrTimeout)
		}
		return domain.ProviderMetrics{}, fmt.Errorf("%w: gbp request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return domain.ProviderMetrics{}, fmt.Errorf("%w: gbp responded %d", domain.ErrAuth, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.ProviderMetrics{}, fmt.Errorf("%w: gbp responded %d", domain.ErrUpstream, resp.StatusCode)
	}

	var parsed timeSeriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.ProviderMetrics{}, fmt.Errorf("%w: gbp decode response: %v", domain.ErrUpstream, err)
	}

	var m domain.ProviderMetrics
	for _, series := range parsed.Series {
		total := 0
		for _, point := range series.Points {
			total += point.Value
		}
		switch series.Metric {
		case "BUSINESS_IMPRESSIONS":
			m.GBPViews += total
		case "BUSINESS_SEARCHES":
			m.GBPSearches += total
		case "CALL_CLICKS":
			m.GBPCalls += total
		case "BUSINESS_DIRECTION_REQUESTS":
			m.GBPDirectionRequests += total
		}
	}
	if c.logger != nil {
		c.logger.Debug().
			Str("location_id", client.GBPLocationID).
			Int("series", len(parsed.Series)).
			Msg("gbp: fetched performance series")
	}
	return m, nil
}
