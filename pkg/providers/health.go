package providers

import (
	"context"
	"log/slog"
	"time"
)

// DefaultHealthCheckInterval is the default period between background health
// probes when the provider config does not set one.
const DefaultHealthCheckInterval = 30 * time.Second

// StartHealthChecker starts a background goroutine that periodically checks
// the provider's health. The checker runs until the provider is closed or the
// context is cancelled, and backs off while the provider is unhealthy to
// reduce load.
func (p *HTTPProvider) StartHealthChecker(ctx context.Context) {
	p.healthCheckerRunning = true
	go p.runHealthChecker(ctx)
}

// runHealthChecker is the main health checking loop.
func (p *HTTPProvider) runHealthChecker(ctx context.Context) {
	defer close(p.healthCheckStopped)

	interval := p.config.HealthCheckInterval
	if interval <= 0 {
		interval = DefaultHealthCheckInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("health checker started",
		"provider", p.config.Name,
		"interval", interval,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Debug("health checker stopped (context cancelled)", "provider", p.config.Name)
			return

		case <-p.stopHealthCheck:
			slog.Debug("health checker stopped (provider closed)", "provider", p.config.Name)
			return

		case <-ticker.C:
			p.performHealthCheck(ctx)

			if !p.IsHealthy() {
				health := p.GetHealth()
				backoffInterval := healthCheckBackoff(health.ConsecutiveFailures, interval)
				ticker.Reset(backoffInterval)

				slog.Debug("health check backoff",
					"provider", p.config.Name,
					"consecutive_failures", health.ConsecutiveFailures,
					"next_check_in", backoffInterval,
				)
			} else {
				ticker.Reset(interval)
			}
		}
	}
}

// performHealthCheck executes a single health check.
func (p *HTTPProvider) performHealthCheck(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	err := p.HealthCheck(checkCtx)
	latency := time.Since(start)

	if err != nil {
		p.updateHealth(false, err)
		slog.Error("health check failed",
			"provider", p.config.Name,
			"error", err,
			"latency", latency,
		)
		return
	}

	health := p.GetHealth()
	p.updateHealth(true, nil)
	slog.Debug("health check passed",
		"provider", p.config.Name,
		"latency", latency,
	)

	if health.ConsecutiveFailures > 0 {
		slog.Info("provider marked healthy",
			"provider", p.config.Name,
			"previous_failures", health.ConsecutiveFailures,
		)
	}
}

// HealthCheck performs a synchronous reachability probe (part of the Provider
// interface). The base implementation issues a GET against the base URL with
// bearer auth; adapters with different auth or probe endpoints override it.
func (p *HTTPProvider) HealthCheck(ctx context.Context) error {
	headers := make(map[string]string)
	if p.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + p.config.APIKey
	}

	resp, err := p.DoRequest(ctx, "GET", p.config.BaseURL, nil, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return nil
}

// healthCheckBackoff calculates the probe interval after consecutive failures.
// It uses exponential backoff capped at 10x the base interval and 5 minutes.
func healthCheckBackoff(consecutiveFailures int, baseInterval time.Duration) time.Duration {
	if consecutiveFailures <= 0 {
		return baseInterval
	}

	multiplier := 1 << uint(consecutiveFailures)
	if multiplier > 10 {
		multiplier = 10
	}

	backoff := baseInterval * time.Duration(multiplier)

	maxBackoff := 5 * time.Minute
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	return backoff
}
