package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/server/store"
)

// Checker probes service health endpoints.
type Checker struct {
	client  *http.Client
	timeout time.Duration
	now     func() time.Time
}

// NewChecker creates a checker whose probes time out after timeout.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultConnectionTimeoutMs * time.Millisecond
	}
	return &Checker{
		client:  &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()},
		timeout: timeout,
		now:     time.Now,
	}
}

// CloseIdleConnections releases pooled probe connections.
func (c *Checker) CloseIdleConnections() {
	c.client.CloseIdleConnections()
}

// ProbeURL joins the service URL with the health endpoint of its type.
func ProbeURL(baseURL string, serviceType model.ServiceType) string {
	endpoint := HealthEndpoints[serviceType]
	if endpoint == "" {
		return baseURL
	}
	return strings.TrimRight(baseURL, "/") + endpoint
}

// Check probes a registered service.
func (c *Checker) Check(ctx context.Context, svc model.Service) store.HealthResult {
	apiKey := ""
	if svc.APIKey != nil {
		apiKey = *svc.APIKey
	}
	return c.probe(ctx, ProbeURL(svc.URL, svc.ServiceType), svc.ServiceType, svc.AuthType, apiKey, c.timeout)
}

// TestConnection probes an unsaved service configuration.
func (c *Checker) TestConnection(ctx context.Context, t ConnectionTest) store.HealthResult {
	return c.probe(ctx, ProbeURL(t.URL, t.ServiceType), t.ServiceType, t.AuthType, t.APIKey, t.TimeoutDuration())
}

func (c *Checker) probe(ctx context.Context, url string, serviceType model.ServiceType, authType model.AuthType, apiKey string, timeout time.Duration) store.HealthResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := c.now()
	result := store.HealthResult{CheckedAt: start.UTC()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Status = model.ServiceStatusError
		result.Error = err.Error()
		return result
	}
	setAuth(req, serviceType, authType, apiKey)

	resp, err := c.client.Do(req)
	result.ResponseTime = c.now().Sub(start)
	if err != nil {
		result.Status = model.ServiceStatusOffline
		if errors.Is(err, context.DeadlineExceeded) {
			result.Error = fmt.Sprintf("timed out after %s", timeout)
		} else {
			result.Error = err.Error()
		}
		return result
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode < 400:
		result.Status = model.ServiceStatusOnline
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		result.Status = model.ServiceStatusError
		result.Error = fmt.Sprintf("authentication failed: %s", resp.Status)
	default:
		result.Status = model.ServiceStatusError
		result.Error = fmt.Sprintf("unexpected status: %s", resp.Status)
	}
	return result
}

// setAuth adds the credentials a service type expects.
func setAuth(req *http.Request, serviceType model.ServiceType, authType model.AuthType, apiKey string) {
	if apiKey == "" {
		return
	}
	switch authType {
	case model.AuthTypeAPIKey:
		switch serviceType {
		case model.ServiceTypeJellyfin:
			req.Header.Set("X-Emby-Token", apiKey)
		case model.ServiceTypePlex:
			req.Header.Set("X-Plex-Token", apiKey)
		case model.ServiceTypeHomeAssistant:
			req.Header.Set("Authorization", "Bearer "+apiKey)
		case model.ServiceTypeTautulli:
			q := req.URL.Query()
			q.Set("apikey", apiKey)
			req.URL.RawQuery = q.Encode()
		default:
			req.Header.Set("X-Api-Key", apiKey)
		}
	case model.AuthTypeBasicAuth:
		user, pass, _ := strings.Cut(apiKey, ":")
		req.SetBasicAuth(user, pass)
	case model.AuthTypeOAuth:
		if serviceType == model.ServiceTypePlex {
			req.Header.Set("X-Plex-Token", apiKey)
			return
		}
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
}
