package nbastats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/time/rate"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/platform/logging"
	"github.com/hoopstack/hoops-tracker/internal/platform/resilience"
)

const (
	defaultBaseURL  = "https://api.balldontlie.io/v1"
	defaultPageSize = 100
	maxBodyBytes    = 6 << 20
)

var apiKeyParamRegex = regexp.MustCompile(`api_key=[^&\s"']+`)

var (
	errProviderTransient = crerr.New("stats provider transient failure")
	errProviderRateLimit = crerr.New("stats provider rate limited")
)

type ClientConfig struct {
	HTTPClient        *http.Client
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
	PageSize          int
	Logger            *logging.Logger
	CircuitBreaker    resilience.CircuitBreakerConfig
}

// Client talks to the NBA stats provider. Every call is rate limited
// through a shared token bucket, retried with exponential backoff on
// transient failures, and guarded by a circuit breaker.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	pageSize       int
	limiter        *rate.Limiter
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	pageSize := cfg.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultPageSize
	}

	perMinute := cfg.RequestsPerMinute
	if perMinute < 1 {
		perMinute = 60
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		pageSize:       pageSize,
		limiter:        rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute/10+1),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchTeams returns the full team list. The provider keeps it on a
// single page; any cursor in the response is followed anyway.
func (c *Client) FetchTeams(ctx context.Context) ([]TeamRecord, PageMeta, error) {
	out := make([]TeamRecord, 0, 30)
	meta := PageMeta{}
	var cursor *int64
	for {
		var envelope teamsEnvelope
		retries, err := c.doJSON(ctx, "/teams", c.pageQuery(cursor, nil), &envelope)
		meta.Retries += retries
		if err != nil {
			return nil, meta, fmt.Errorf("fetch teams: %w", c.classify("fetch teams", err))
		}
		out = append(out, envelope.Data...)
		if envelope.Meta.NextCursor == nil {
			break
		}
		cursor = envelope.Meta.NextCursor
	}
	return out, meta, nil
}

// FetchPlayers returns one page of players starting at cursor. A nil
// NextCursor in the returned meta means the listing is exhausted.
func (c *Client) FetchPlayers(ctx context.Context, cursor *int64) (PlayerPage, error) {
	var envelope playersEnvelope
	retries, err := c.doJSON(ctx, "/players", c.pageQuery(cursor, nil), &envelope)
	page := PlayerPage{Meta: PageMeta{NextCursor: nil, Retries: retries}}
	if err != nil {
		return page, fmt.Errorf("fetch players: %w", c.classify("fetch players", err))
	}
	page.Players = envelope.Data
	page.Meta.NextCursor = envelope.Meta.NextCursor
	return page, nil
}

// FetchGames returns one page of games for a season year.
func (c *Client) FetchGames(ctx context.Context, seasonYear int, cursor *int64) (GamePage, error) {
	extra := map[string]string{"seasons[]": strconv.Itoa(seasonYear)}
	var envelope gamesEnvelope
	retries, err := c.doJSON(ctx, "/games", c.pageQuery(cursor, extra), &envelope)
	page := GamePage{Meta: PageMeta{Retries: retries}}
	if err != nil {
		return page, fmt.Errorf("fetch games season=%d: %w", seasonYear, c.classify("fetch games", err))
	}
	page.Games = envelope.Data
	page.Meta.NextCursor = envelope.Meta.NextCursor
	return page, nil
}

// FetchGameStats returns one page of per-player box score lines for a game.
func (c *Client) FetchGameStats(ctx context.Context, nbaGameID int64, cursor *int64) (StatPage, error) {
	extra := map[string]string{"game_ids[]": strconv.FormatInt(nbaGameID, 10)}
	var envelope statsEnvelope
	retries, err := c.doJSON(ctx, "/stats", c.pageQuery(cursor, extra), &envelope)
	page := StatPage{Meta: PageMeta{Retries: retries}}
	if err != nil {
		return page, fmt.Errorf("fetch stats game_id=%d: %w", nbaGameID, c.classify("fetch stats", err))
	}
	page.Stats = envelope.Data
	page.Meta.NextCursor = envelope.Meta.NextCursor
	return page, nil
}

func (c *Client) pageQuery(cursor *int64, extra map[string]string) map[string]string {
	query := map[string]string{"per_page": strconv.Itoa(c.pageSize)}
	if cursor != nil {
		query["cursor"] = strconv.FormatInt(*cursor, 10)
	}
	for key, value := range extra {
		query[key] = value
	}
	return query
}

// classify maps transport errors onto the pipeline error taxonomy so the
// orchestrator can decide between retry and abort.
func (c *Client) classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case crerr.Is(err, errProviderRateLimit):
		return &datasync.TransientError{Op: op, RateLimited: true, Err: err}
	case crerr.Is(err, errProviderTransient), crerr.Is(err, resilience.ErrCircuitOpen):
		return &datasync.TransientError{Op: op, Err: err}
	case crerr.Is(err, context.Canceled), crerr.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &datasync.FatalError{Op: op, Err: err}
	}
}

type flightResult struct {
	raw     []byte
	retries int
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) (int, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "stats provider circuit breaker rejected request", "state", c.breaker.State())
			return 0, err
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, retries, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return flightResult{raw: raw, retries: retries}, reqErr
	})
	result, _ := out.(flightResult)
	if err != nil {
		return result.retries, err
	}

	if err := sonic.Unmarshal(result.raw, target); err != nil {
		return result.retries, fmt.Errorf("decode provider payload: %w", err)
	}
	return result.retries, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, int, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, attempt, err
		}

		raw, err := c.doOnce(ctx, fullURL)
		if err == nil {
			return raw, attempt, nil
		}
		lastErr = err
		if !isCircuitFailure(err) {
			// Non-transient: retrying will not change the answer.
			return nil, attempt, err
		}
		if attempt == c.maxRetries {
			break
		}

		backoff := backoffDelay(attempt)
		c.logger.WarnContext(ctx, "stats provider request retrying",
			"url", redactAPIURL(fullURL),
			"attempt", attempt+1,
			"backoff", backoff.String(),
			"error", err,
		)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, attempt, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "stats provider request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, c.maxRetries, lastErr
}

func (c *Client) doOnce(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, crerr.Wrapf(errProviderTransient, "send request: %s", sanitizeSensitiveText(err.Error(), c.apiKey))
	}
	defer func() { _ = resp.Body.Close() }()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := io.Copy(buf, io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return nil, crerr.Wrapf(errProviderTransient, "read response body: %v", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		raw := make([]byte, buf.Len())
		copy(raw, buf.B)
		return raw, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, crerr.Wrapf(errProviderRateLimit, "provider status=%d", resp.StatusCode)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, crerr.Wrapf(errProviderTransient, "provider status=%d body=%s", resp.StatusCode, abbreviateBody(buf.B))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("provider rejected credentials: status=%d", resp.StatusCode)
	default:
		return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(buf.B))
	}
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return crerr.Is(err, errProviderTransient) || crerr.Is(err, errProviderRateLimit)
}

func backoffDelay(attempt int) time.Duration {
	delay := 500 * time.Millisecond << uint(attempt)
	if delay > 15*time.Second {
		delay = 15 * time.Second
	}
	return delay
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "api_key=REDACTED")
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("api_key") {
		query.Set("api_key", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
