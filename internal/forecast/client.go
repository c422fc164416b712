package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hcmaqi/aqidash/internal/provider/resilience"
)

const (
	// ProviderName identifies this provider in health reports and metrics.
	ProviderName = "forecast"

	// ForecastPath is the upstream path serving per-station predictions.
	ForecastPath = "/default/get_forecast_data"

	tracerName = "github.com/hcmaqi/aqidash/internal/forecast"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the forecast client.
type ClientConfig struct {
	// BaseURL is the upstream base URL, without the forecast path.
	BaseURL string

	// HTTPClient executes requests. If nil, a resilient client with no retries is created.
	HTTPClient HTTPDoer

	// Timeout for the default HTTP client (default: 10s).
	Timeout time.Duration

	// Registry receives the default HTTP client for health reporting. Optional.
	Registry *resilience.Registry

	// Logger receives fetch failures.
	Logger zerolog.Logger

	// Metrics records fetch duration and outcome. Optional.
	Metrics *Metrics
}

// Client fetches forecast records for a station.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
}

// NewClient creates a new forecast client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		rc := resilience.DefaultClientConfig(ProviderName)
		if cfg.Timeout > 0 {
			rc.Timeout = cfg.Timeout
		}
		rc.CircuitBreaker.OnStateChange = resilience.LogStateChange(cfg.Logger)
		rc.Registry = cfg.Registry
		httpClient = resilience.NewClient(rc)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		tracer:     otel.Tracer(tracerName),
	}
}

// FetchForecast retrieves the forecast records for stationID.
//
// It never returns a nil slice: on any network, status, or decoding failure it
// returns an empty slice together with the error, and logs the error.
func (c *Client) FetchForecast(ctx context.Context, stationID int) ([]Record, error) {
	ctx, span := c.tracer.Start(ctx, "forecast.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("station.id", stationID)),
	)
	defer span.End()

	start := time.Now()
	records, err := c.fetch(ctx, stationID)
	if c.metrics != nil {
		c.metrics.RecordFetch(ctx, stationID, time.Since(start), err)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error().
			Err(err).
			Int("station", stationID).
			Msg("error fetching forecast data")
		return []Record{}, err
	}

	span.SetAttributes(attribute.Int("forecast.records", len(records)))
	return records, nil
}

func (c *Client) fetch(ctx context.Context, stationID int) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(stationID), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}
	if records == nil {
		records = []Record{}
	}

	return records, nil
}

func (c *Client) requestURL(stationID int) string {
	q := url.Values{}
	q.Set("station", strconv.Itoa(stationID))
	return c.baseURL + ForecastPath + "?" + q.Encode()
}

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from forecast endpoint", e.StatusCode)
}
