package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/curvecard/curvecard/pkg/common"
	"github.com/levenlabs/go-lflag"
)

// REST implements Client against the Home Assistant HTTP API using a
// long-lived access token.
type REST struct {
	client  *http.Client
	baseURL string
	token   string
}

// Configured sets up the REST client from flags. The call timeout doubles as
// the remote-command timeout; a timed-out service call surfaces like any
// other failure.
func Configured() *REST {
	baseURL := lflag.String("ha-url", "http://homeassistant.local:8123", "Base URL of the Home Assistant instance")
	token := lflag.RequiredString("ha-token", "Long-lived Home Assistant access token")
	timeout := lflag.Duration("ha-timeout", 30*time.Second, "Timeout for Home Assistant API calls")

	r := &REST{}
	lflag.Do(func() {
		r.baseURL = strings.TrimSuffix(*baseURL, "/")
		r.token = *token
		r.client = common.HTTPClient(*timeout)
	})
	return r
}

// NewREST creates a client directly, bypassing flags. Used by tests and
// embedding callers.
func NewREST(baseURL, token string, timeout time.Duration) *REST {
	return &REST{
		client:  common.HTTPClient(timeout),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
	}
}

func (r *REST) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrEntityNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// States returns a snapshot of every entity keyed by entity ID.
func (r *REST) States(ctx context.Context) (map[string]Entity, error) {
	var list []Entity
	if err := r.do(ctx, http.MethodGet, "/api/states", nil, &list); err != nil {
		return nil, err
	}
	states := make(map[string]Entity, len(list))
	for _, e := range list {
		states[e.EntityID] = e
	}
	return states, nil
}

// State returns a single entity, or ErrEntityNotFound.
func (r *REST) State(ctx context.Context, entityID string) (Entity, error) {
	var e Entity
	if err := r.do(ctx, http.MethodGet, "/api/states/"+url.PathEscape(entityID), nil, &e); err != nil {
		return Entity{}, err
	}
	return e, nil
}

// CallService invokes domain.service with the given payload. The response
// body (the list of changed entities) is discarded; the next state refresh
// reflects the true result.
func (r *REST) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	path := fmt.Sprintf("/api/services/%s/%s", url.PathEscape(domain), url.PathEscape(service))
	return r.do(ctx, http.MethodPost, path, data, nil)
}

var _ Client = (*REST)(nil)
