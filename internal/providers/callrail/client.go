package callrail

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

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("callrail: api key is required")

// Options configures the CallRail calls client.
type Options struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the CallRail v3 API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type callsResponse struct {
	Calls []struct {
		Answered  bool `json:"answered"`
		FirstCall bool `json:"first_call"`
	} `json:"calls"`
	TotalRecords int `json:"total_records"`
}

func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    opts.BaseURL,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// Fetch lists calls for the client's CallRail account over the range.
func (c *Client) Fetch(ctx context.Context, client domain.Client, r domain.Range) (domain.ProviderMetrics, error) {
	if client.CallRailAccountID == "" {
		return domain.ProviderMetrics{}, domain.ErrNotConfigured
	}

	q := url.Values{}
	q.Set("start_date", r.Start.Format(domain.DateLayout))
	q.Set("end_date", r.End.Format(domain.DateLayout))
	q.Set("per_page", "250")

	endpoint := fmt.Sprintf("%s/a/%s/calls.json?%s", c.baseURL, client.CallRailAccountID, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.ProviderMetrics{}, fmt.Errorf("callrail: build request: %w", err)
	}
	req.Header.Set("Authorization", `Token token="`+c.apiKey+`"`)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return domain.ProviderMetrics{}, fmt.Errorf("%w: callrail request", domain.ErrTimeout)
		}
		return domain.ProviderMetrics{}, fmt.Errorf("%w: callrail request: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return domain.ProviderMetrics{}, fmt.Errorf("%w: callrail responded %d", domain.ErrAuth, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.ProviderMetrics{}, fmt.Errorf("%w: callrail responded %d", domain.ErrUpstream, resp.StatusCode)
	}

	var parsed callsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.ProviderMetrics{}, fmt.Errorf("%w: callrail decode response: %v", domain.ErrUpstream, err)
	}

	var m domain.ProviderMetrics
	m.PhoneCalls = len(parsed.Calls)
	for _, call := range parsed.Calls {
		if call.Answered {
			m.AnsweredCalls++
		}
		if call.FirstCall {
			m.FirstTimeCallers++
		}
	}
	if c.logger != nil {
		c.logger.Debug().
			Str("account_id", client.CallRailAccountID).
			Int("calls", m.PhoneCalls).
			Msg("callrail: fetched calls")
	}
	return m, nil
}
