// Package harvest содержит сбор страниц производителей через
// ScrapingBee: HTTP-клиент с ограничением частоты и таксономией ошибок,
// разбор карточек продуктов и оркестрацию сессии сбора.
package harvest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"foodpipeline/internal/metrics"
)

const defaultBaseURL = "https://app.scrapingbee.com/api/v1/"

// Client клиент ScrapingBee
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
}

// ClientConfig конфигурация клиента
type ClientConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	RateLimit    rate.Limit
	MaxRetries   int
	RetryBackoff time.Duration
}

// NewClient создает клиент скрейпинга
func NewClient(config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("scraping api key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 90 * time.Second
	}
	if config.RateLimit == 0 {
		// Рендерящие запросы дорогие, по умолчанию один запрос в 2 секунды
		config.RateLimit = rate.Every(2 * time.Second)
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = 5 * time.Second
	}

	return &Client{
		baseURL:      config.BaseURL,
		apiKey:       config.APIKey,
		httpClient:   &http.Client{Timeout: config.Timeout},
		limiter:      rate.NewLimiter(config.RateLimit, 1),
		logger:       slog.Default().With("component", "harvest_client"),
		maxRetries:   config.MaxRetries,
		retryBackoff: config.RetryBackoff,
	}, nil
}

// FetchOptions параметры одного запроса страницы
type FetchOptions struct {
	// Двухбуквенный код страны прокси (gb, de, ...)
	CountryCode string
	// Стелс-прокси для сайтов с антиботом
	Stealth bool
	// Рендерить ли JS
	RenderJS bool
	// Необязательный сценарий взаимодействия со страницей
	Scenario *Scenario
}

// Fetch загружает страницу через прокси с повторами. Временные ошибки
// повторяются с нарастающей паузой, окончательные возвращаются сразу.
func (c *Client) Fetch(ctx context.Context, targetURL string, opts FetchOptions) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.retryBackoff * time.Duration(1<<(attempt-1))
			c.logger.Info("Retrying fetch",
				"url", targetURL,
				"attempt", attempt,
				"backoff", backoff.String())
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, err := c.fetchOnce(ctx, targetURL, opts)
		if err == nil {
			metrics.HarvestRequests.WithLabelValues("success").Inc()
			return body, nil
		}

		lastErr = err
		if IsTerminal(err) {
			metrics.HarvestRequests.WithLabelValues("terminal").Inc()
			return nil, err
		}
		metrics.HarvestRequests.WithLabelValues("retryable").Inc()
	}

	return nil, fmt.Errorf("fetch failed after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, targetURL string, opts FetchOptions) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("url", targetURL)
	if opts.RenderJS {
		params.Set("render_js", "true")
	} else {
		params.Set("render_js", "false")
	}
	if opts.CountryCode != "" {
		params.Set("country_code", opts.CountryCode)
	}
	if opts.Stealth {
		params.Set("stealth_proxy", "true")
	}
	if opts.Scenario != nil {
		scenario, err := opts.Scenario.Encode()
		if err != nil {
			return nil, &TerminalError{Err: err}
		}
		if scenario != "" {
			params.Set("js_scenario", scenario)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &TerminalError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Сетевые сбои и таймауты временные
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetryableError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &TerminalError{StatusCode: resp.StatusCode, Err: fmt.Errorf("authentication failed")}
	case resp.StatusCode == http.StatusBadRequest:
		return nil, &TerminalError{StatusCode: resp.StatusCode, Err: fmt.Errorf("bad request: %s", truncate(body, 200))}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &RetryableError{StatusCode: resp.StatusCode, Err: fmt.Errorf("provider unavailable")}
	default:
		return nil, &RetryableError{StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status: %s", truncate(body, 200))}
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
