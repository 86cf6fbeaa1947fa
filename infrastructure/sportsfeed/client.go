package sportsfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"pickem/domain/entities"
	"pickem/infrastructure/observability"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api-web.nhle.com/v1"

	endpointSchedule   = "schedule"
	endpointPlayByPlay = "play_by_play"

	defaultMaxRetries      = 3
	defaultInitialInterval = 250 * time.Millisecond
	maxBodyBytes           = 8 << 20
)

// statusError is a non-2xx response
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// decodeError is a response body that could not be parsed
type decodeError struct {
	err error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.err)
}

func (e *decodeError) Unwrap() error {
	return e.err
}

// Client fetches schedules and play-by-play from the public NHL web API.
// Every call is rate limited, bounded by a timeout and retried with
// exponential backoff on transport errors, 429 and 5xx responses.
type Client struct {
	http            *http.Client
	baseURL         string
	limiter         *rate.Limiter
	maxRetries      uint64
	initialInterval time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithRetries overrides the retry bound and the first backoff interval
func WithRetries(maxRetries uint64, initialInterval time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.initialInterval = initialInterval
	}
}

// NewClient creates a feed client. An empty baseURL uses the production API.
func NewClient(baseURL string, ratePerSec float64, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if ratePerSec <= 0 {
		ratePerSec = 5
	}
	burst := int(ratePerSec)
	if burst < 1 {
		burst = 1
	}
	c := &Client{
		http:            &http.Client{Timeout: timeout},
		baseURL:         baseURL,
		limiter:         rate.NewLimiter(rate.Limit(ratePerSec), burst),
		maxRetries:      defaultMaxRetries,
		initialInterval: defaultInitialInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetSchedule returns the games played on day (YYYY-MM-DD)
func (c *Client) GetSchedule(ctx context.Context, day string) ([]entities.ScheduledGame, error) {
	var resp scheduleResponse
	if err := c.getJSON(ctx, endpointSchedule, "/schedule/"+day, &resp); err != nil {
		return nil, err
	}
	return resp.gamesOn(day), nil
}

// GetScoringEvents returns the goal events of one game
func (c *Client) GetScoringEvents(ctx context.Context, gameID int64) ([]entities.ScoringEvent, error) {
	var resp playByPlayResponse
	path := "/gamecenter/" + strconv.FormatInt(gameID, 10) + "/play-by-play"
	if err := c.getJSON(ctx, endpointPlayByPlay, path, &resp); err != nil {
		return nil, err
	}
	return resp.scoringEvents(gameID), nil
}

// getJSON performs a GET with retries and decodes the body into out.
// Failures are returned as *entities.FetchError.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, out any) error {
	url := c.baseURL + path
	attempt := 0

	operation := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return err
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			statusErr := &statusError{code: resp.StatusCode, body: truncate(string(body), 200)}
			if statusErr.retryable() {
				log.WithFields(log.Fields{
					"url":     url,
					"status":  resp.StatusCode,
					"attempt": attempt,
				}).Warn("Sports feed request failed, retrying")
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(&decodeError{err: err})
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialInterval
	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx))
	if err == nil {
		observability.GetMetrics().RecordFeedRequest(endpoint, observability.ResultSuccess)
		return nil
	}

	observability.GetMetrics().RecordFeedRequest(endpoint, observability.ResultFailure)
	return &entities.FetchError{
		Kind:     classify(err),
		Resource: path,
		Err:      err,
	}
}

func classify(err error) entities.FetchErrorKind {
	var decodeErr *decodeError
	if errors.As(err, &decodeErr) {
		return entities.FetchErrorMalformed
	}
	var statusErr *statusError
	if errors.As(err, &statusErr) && !statusErr.retryable() {
		return entities.FetchErrorRejected
	}
	return entities.FetchErrorTransient
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
