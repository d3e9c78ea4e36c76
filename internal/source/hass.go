package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HassSource reads a sensor's state and attributes through the Home
// Assistant REST API.
type HassSource struct {
	BaseURL  string
	Token    string
	EntityID string
	Client   *http.Client
}

// NewHassSource creates a source with optional proxy support.
func NewHassSource(baseURL, token, entityID, proxyURL string, timeout time.Duration) *HassSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HassSource{
		BaseURL:  baseURL,
		Token:    token,
		EntityID: entityID,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (s *HassSource) Name() string { return "home-assistant" }

// Fetch retrieves the sensor snapshot. A missing entity, an
// unavailable/unknown state, or an empty attribute map all surface as
// data-unavailable conditions for the caller to retry next cycle.
func (s *HassSource) Fetch(ctx context.Context) (*Snapshot, error) {
	endpoint := fmt.Sprintf("%s/api/states/%s", s.BaseURL, url.PathEscape(s.EntityID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.EntityID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: entity %s not found", ErrUnavailable, s.EntityID)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch %s: status %d, body: %s", s.EntityID, resp.StatusCode, string(body))
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.EntityID, err)
	}
	if snap.State == "unavailable" || snap.State == "unknown" {
		return nil, fmt.Errorf("%w: entity %s state is %q", ErrUnavailable, s.EntityID, snap.State)
	}
	if len(snap.Attributes) == 0 {
		return nil, fmt.Errorf("%w: entity %s", ErrNoAttributes, s.EntityID)
	}
	return &snap, nil
}
