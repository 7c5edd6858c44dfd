package distance

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"ordersheet/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testConfig() config.Config {
	cfg, _ := config.Load()
	cfg.DistanceAPIToken = "test"
	cfg.DistanceAPIBaseURL = "https://example.test/api/v1"
	cfg.DistanceOrigin = "1 Shop St"
	cfg.DistanceRateLimitRPS = 1000
	return cfg
}

func TestDrivingMilesWithRetry(t *testing.T) {
	attempt := 0

	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Path != "/api/v1/route/distance" {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("destination"); got != "5 Oak Ave" {
				t.Fatalf("unexpected destination %q", got)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test" {
				t.Fatalf("unexpected auth header %q", got)
			}
			attempt++
			if attempt == 1 {
				return &http.Response{
					StatusCode: http.StatusTooManyRequests,
					Body:       io.NopCloser(strings.NewReader(`{"error":"slow down"}`)),
					Header:     make(http.Header),
				}, nil
			}

			blob, _ := json.Marshal(map[string]any{"success": true, "data": map[string]any{"miles": 4.2}})
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(string(blob))),
				Header:     make(http.Header),
			}, nil
		}),
	}

	miles, err := client.DrivingMiles(context.Background(), "5 Oak Ave")
	if err != nil {
		t.Fatal(err)
	}
	if miles != 4.2 {
		t.Fatalf("miles=%v", miles)
	}
	if attempt != 2 {
		t.Fatalf("expected one retry, attempts=%d", attempt)
	}
}

func TestDrivingMilesUnsuccessfulResponse(t *testing.T) {
	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			blob, _ := json.Marshal(map[string]any{"success": false, "errors": []string{"no route"}})
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(string(blob))),
				Header:     make(http.Header),
			}, nil
		}),
	}

	if _, err := client.DrivingMiles(context.Background(), "nowhere"); err == nil {
		t.Fatal("expected error for unsuccessful response")
	}
}

func TestDrivingMilesMissingToken(t *testing.T) {
	cfg := testConfig()
	cfg.DistanceAPIToken = ""
	client := NewClient(cfg)
	if _, err := client.DrivingMiles(context.Background(), "5 Oak Ave"); err == nil {
		t.Fatal("expected error without token")
	}
}

func TestQuoteFee(t *testing.T) {
	cfg := testConfig()
	cfg.DeliveryBaseFee = 5.0
	cfg.DeliveryPerMile = 1.5
	cfg.DeliveryFreeMiles = 3.0

	cases := []struct {
		miles float64
		want  float64
	}{
		{0, 5.0},
		{3.0, 5.0},
		{4.0, 6.5},
		{10.5, 16.25},
	}
	for _, tc := range cases {
		if got := QuoteFee(cfg, tc.miles); got != tc.want {
			t.Fatalf("QuoteFee(%v)=%v want %v", tc.miles, got, tc.want)
		}
	}
}
