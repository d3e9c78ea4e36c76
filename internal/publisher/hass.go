package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"tariffwatch/internal/logger"
	"tariffwatch/internal/model"
)

// HassPublisher writes the consumption and injection sensors through the
// Home Assistant REST API.
type HassPublisher struct {
	BaseURL           string
	Token             string
	ConsumptionEntity string
	InjectionEntity   string
	SourceEntity      string
	Client            *http.Client
	MaxRetries        int
}

// NewHassPublisher creates a publisher with optional proxy support.
func NewHassPublisher(baseURL, token, consumptionEntity, injectionEntity, sourceEntity, proxyURL string) *HassPublisher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HassPublisher{
		BaseURL:           baseURL,
		Token:             token,
		ConsumptionEntity: consumptionEntity,
		InjectionEntity:   injectionEntity,
		SourceEntity:      sourceEntity,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		MaxRetries: 3,
	}
}

func (p *HassPublisher) Name() string { return "home-assistant" }

// Publish writes both sensors. The injection sensor is still attempted
// when the consumption write fails; the first error wins.
func (p *HassPublisher) Publish(ctx context.Context, consumption, injection *model.PricedSet) error {
	consErr := p.postStateWithRetry(ctx, p.ConsumptionEntity, consumption)
	injErr := p.postStateWithRetry(ctx, p.InjectionEntity, injection)
	if consErr != nil {
		return fmt.Errorf("publish %s: %w", p.ConsumptionEntity, consErr)
	}
	if injErr != nil {
		return fmt.Errorf("publish %s: %w", p.InjectionEntity, injErr)
	}
	return nil
}

func (p *HassPublisher) postState(ctx context.Context, entityID string, set *model.PricedSet) error {
	payload := map[string]any{
		"state":      stateString(set),
		"attributes": sensorAttributes(set, p.SourceEntity),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/states/%s", p.BaseURL, url.PathEscape(entityID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("post state: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("post state: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// postStateWithRetry retries with exponential backoff.
func (p *HassPublisher) postStateWithRetry(ctx context.Context, entityID string, set *model.PricedSet) error {
	log := logger.WithComponent("publisher")
	var lastErr error
	for i := 0; i <= p.MaxRetries; i++ {
		if err := p.postState(ctx, entityID, set); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.WithError(err).Warnf("publish %s failed (attempt %d/%d), retrying in %v", entityID, i+1, p.MaxRetries+1, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", p.MaxRetries+1, lastErr)
}
