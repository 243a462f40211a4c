package providers

import (
	"time"

	"leadpulse/internal/domain"
	"leadpulse/internal/infra"
	"leadpulse/internal/providers/ads"
	"leadpulse/internal/providers/analytics"
	"leadpulse/internal/providers/callrail"
	"leadpulse/internal/providers/gbp"
	"leadpulse/internal/providers/searchconsole"
)

// NewSet builds the connector set from configuration. Providers without
// service-level credentials are left out entirely; their fields zero-fill in
// every rollup, the same as a per-client NotConfigured.
func NewSet(cfg *infra.Config, logger *infra.Logger) Set {
	var set Set

	add := func(p domain.Provider, f Fetcher, timeout time.Duration) {
		if cfg.ProviderBreakerEnable {
			f = WithBreaker(p, f)
		}
		set = append(set, Connector{Provider: p, Fetcher: f, Timeout: timeout})
	}

	if client, err := ads.NewClient(ads.Options{
		DeveloperToken: cfg.AdsDeveloperToken,
		BaseURL:        cfg.AdsBaseURL,
		Logger:         logger,
		RequestTimeout: cfg.AdsTimeout,
	}); err != nil {
		logger.Warn().Err(err).Msg("ads connector disabled")
	} else {
		add(domain.ProviderAds, client, cfg.AdsTimeout)
	}

	if client, err := analytics.NewClient(analytics.Options{
		Token:          cfg.AnalyticsToken,
		BaseURL:        cfg.AnalyticsBaseURL,
		Logger:         logger,
		RequestTimeout: cfg.AnalyticsTimeout,
	}); err != nil {
		logger.Warn().Err(err).Msg("analytics connector disabled")
	} else {
		add(domain.ProviderAnalytics, client, cfg.AnalyticsTimeout)
	}

	if client, err := gbp.NewClient(gbp.Options{
		Token:          cfg.GBPToken,
		BaseURL:        cfg.GBPBaseURL,
		Logger:         logger,
		RequestTimeout: cfg.GBPTimeout,
	}); err != nil {
		logger.Warn().Err(err).Msg("gbp connector disabled")
	} else {
		add(domain.ProviderGBP, client, cfg.GBPTimeout)
	}

	if client, err := searchconsole.NewClient(searchconsole.Options{
		Token:          cfg.SearchConsoleToken,
		BaseURL:        cfg.SearchConsoleBaseURL,
		Logger:         logger,
		RequestTimeout: cfg.SearchConsoleTimeout,
	}); err != nil {
		logger.Warn().Err(err).Msg("searchconsole connector disabled")
	} else {
		add(domain.ProviderSearchConsole, client, cfg.SearchConsoleTimeout)
	}

	if client, err := callrail.NewClient(callrail.Options{
		APIKey:         cfg.CallRailAPIKey,
		BaseURL:        cfg.CallRailBaseURL,
		Logger:         logger,
		RequestTimeout: cfg.CallRailTimeout,
	}); err != nil {
		logger.Warn().Err(err).Msg("callrail connector disabled")
	} else {
		add(domain.ProviderCallRail, client, cfg.CallRailTimeout)
	}

	return set
}
