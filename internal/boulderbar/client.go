// Package boulderbar is an HTTP client for the Boulderbar capacity API.
package boulderbar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Boulderbar capacity endpoint with the tracked location IDs.
const (
	DefaultURL = "https://boulderbar.net/wp-json/boulderbar/v1/capacity?locations=260,261,262,263,264,265,284"

	requestTimeout = 10 * time.Second
)

// Client is an HTTP client for the Boulderbar capacity API.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// NewClient creates a client for the given capacity endpoint URL. An empty
// url selects DefaultURL.
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		URL: url,
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// LocationCapacity is one location's current occupancy as reported by the API.
type LocationCapacity struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Capacity int    `json:"capacity"`
}

// capacityResponse is the wire shape of the capacity endpoint. A Status other
// than 1 means the API has no data for this round.
type capacityResponse struct {
	Status int                `json:"status"`
	Data   []LocationCapacity `json:"data"`
}

// FetchCapacity fetches the current capacity of all tracked locations.
// Network failures, non-2xx responses, and malformed bodies return an error.
// A response with status != 1 returns no locations and no error: the API
// simply had nothing to report.
func (c *Client) FetchCapacity(ctx context.Context) ([]LocationCapacity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create capacity request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("capacity request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read capacity response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("capacity request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed capacityResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse capacity response: %w", err)
	}

	if parsed.Status != 1 {
		return nil, nil
	}
	return parsed.Data, nil
}
