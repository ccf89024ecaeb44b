// Package homeassistant fetches entity state from the Home Assistant REST API.
package homeassistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rmitchellscott/hass-render/internal/entity"
	"github.com/rmitchellscott/hass-render/internal/logging"
	"github.com/rmitchellscott/hass-render/internal/metrics"
	"github.com/rmitchellscott/hass-render/internal/version"
)

// ErrNotFound is returned when Home Assistant does not know the entity.
var ErrNotFound = errors.New("homeassistant: entity not found")

// Client is a minimal Home Assistant REST client.
type Client struct {
	baseURL     string
	token       string
	timeout     time.Duration
	concurrency int
	client      *http.Client
}

// State is the JSON body of GET /api/states/{entity_id}.
type State struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastChanged time.Time      `json:"last_changed"`
	LastUpdated time.Time      `json:"last_updated"`
}

// Record converts the API state into a render record.
func (s *State) Record() entity.Record {
	r := entity.Record{
		EntityID:    s.EntityID,
		State:       s.State,
		Attributes:  s.Attributes,
		LastChanged: s.LastChanged,
	}
	if name, ok := s.Attributes[entity.AttrFriendlyName].(string); ok {
		r.FriendlyName = strings.TrimSpace(name)
	}
	return r
}

// NewClient constructs a client. timeout bounds each state request and
// concurrency caps parallel requests issued by Records.
func NewClient(baseURL, token string, timeout time.Duration, concurrency int) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("homeassistant: empty base url")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		timeout:     timeout,
		concurrency: concurrency,
		client:      &http.Client{Timeout: timeout},
	}, nil
}

// GetState fetches one entity.
func (c *Client) GetState(ctx context.Context, entityID string) (*State, error) {
	var st State
	if err := c.getJSON(ctx, "/api/states/"+url.PathEscape(entityID), &st); err != nil {
		return nil, err
	}
	if st.EntityID == "" {
		st.EntityID = entityID
	}
	return &st, nil
}

// Ping checks that the API is reachable and the token is accepted.
func (c *Client) Ping(ctx context.Context) error {
	var body struct {
		Message string `json:"message"`
	}
	return c.getJSON(ctx, "/api/", &body)
}

// Record fetches one entity, substituting the unavailable placeholder for
// any failure.
func (c *Client) Record(ctx context.Context, entityID string) entity.Record {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	st, err := c.GetState(ctx, entityID)
	switch {
	case err == nil:
		metrics.ObserveEntityFetch(metrics.FetchOK, time.Since(start))
		return st.Record()
	case errors.Is(err, ErrNotFound):
		metrics.ObserveEntityFetch(metrics.FetchNotFound, time.Since(start))
		logging.WarnWithComponent(logging.ComponentHomeAssistant, "Entity not found", "entity_id", entityID)
	default:
		metrics.ObserveEntityFetch(metrics.FetchUnavailable, time.Since(start))
		logging.WarnWithComponent(logging.ComponentHomeAssistant, "Failed to fetch entity state",
			"entity_id", entityID, "error", err)
	}
	return entity.UnavailableRecord(entityID)
}

// Records fetches entities concurrently. The result keeps the order of ids.
func (c *Client) Records(ctx context.Context, entityIDs []string) []entity.Record {
	out := make([]entity.Record, len(entityIDs))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, id := range entityIDs {
		i, id := i, id
		g.Go(func() error {
			out[i] = c.Record(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("homeassistant: http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("homeassistant: decode %s: %w", path, err)
	}
	return nil
}
