package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ordersheet/internal/config"
)

// Client talks to the route lookup API that resolves driving distance
// between two street addresses.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

type routePayload struct {
	Miles *float64 `json:"miles"`
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.DistanceTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.DistanceRateLimitRPS),
	}
}

// DrivingMiles returns the driving distance in miles from the configured
// origin to the destination address.
func (c *Client) DrivingMiles(ctx context.Context, destination string) (float64, error) {
	if strings.TrimSpace(c.cfg.DistanceOrigin) == "" {
		return 0, errors.New("missing DISTANCE_ORIGIN")
	}
	if strings.TrimSpace(destination) == "" {
		return 0, errors.New("empty destination address")
	}

	body, err := c.fetchJSON(ctx, "route/distance", map[string]string{
		"origin":      c.cfg.DistanceOrigin,
		"destination": destination,
	})
	if err != nil {
		return 0, err
	}

	var payload routePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, err
	}
	if payload.Miles == nil || *payload.Miles < 0 {
		return 0, fmt.Errorf("route api returned no distance for %q", destination)
	}
	return *payload.Miles, nil
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	if strings.TrimSpace(c.cfg.DistanceAPIToken) == "" {
		return nil, errors.New("missing DISTANCE_API_TOKEN")
	}

	baseURL := strings.TrimRight(c.cfg.DistanceAPIBaseURL, "/") + "/"
	u, err := url.Parse(baseURL + endpoint)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		c.limiter.WaitTurn()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.DistanceAPIToken)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("route api status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("route api error: status=%d body=%s", resp.StatusCode, string(body))
		}

		var apiResp apiResponse
		if err := json.Unmarshal(body, &apiResp); err != nil {
			return nil, err
		}
		if !apiResp.Success {
			return nil, fmt.Errorf("route api unsuccessful: %s", string(apiResp.Errors))
		}
		return apiResp.Data, nil
	}

	if lastErr == nil {
		lastErr = errors.New("route request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
