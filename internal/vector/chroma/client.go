// Package chroma provides a ChromaDB REST client for the ticket embedding collection.
package chroma

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/flacuna/ticketlens/internal/vector"
)

// Config holds ChromaDB connection settings.
type Config struct {
	BaseURL    string // e.g. http://localhost:8000
	Tenant     string // default: default_tenant
	Database   string // default: default_database
	Collection string // collection holding the ticket embeddings
	Timeout    time.Duration
}

// Client talks to a ChromaDB server over its v2 REST API and implements
// vector.Store. The collection ID is resolved once on first use and
// cached for the lifetime of the client.
type Client struct {
	httpClient   *http.Client
	cfg          Config
	mu           sync.Mutex
	collectionID string
}

// NewClient creates a ChromaDB client. Missing config fields get
// defaults matching a local ChromaDB server.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.Tenant == "" {
		cfg.Tenant = "default_tenant"
	}
	if cfg.Database == "" {
		cfg.Database = "default_database"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// collectionInfo is the v2 collection resource.
type collectionInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// getResponse is the payload of a collection get call.
type getResponse struct {
	IDs        []string         `json:"ids"`
	Embeddings [][]float64      `json:"embeddings"`
	Metadatas  []map[string]any `json:"metadatas"`
}

// queryResponse is the payload of a collection query call. Results come
// nested per query embedding; we always send exactly one.
type queryResponse struct {
	IDs       [][]string  `json:"ids"`
	Distances [][]float64 `json:"distances"`
}

// collectionURL builds the v2 path for the resolved collection.
func (c *Client) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/api/v2/tenants/%s/databases/%s/collections/%s%s",
		c.cfg.BaseURL, c.cfg.Tenant, c.cfg.Database, c.collectionID, suffix)
}

// resolveCollection looks up the collection by name and caches its ID.
// The collection is never created here; a missing collection indicates
// misconfiguration and surfaces as ErrStoreUnavailable.
func (c *Client) resolveCollection(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.collectionID != "" {
		return nil
	}

	url := fmt.Sprintf("%s/api/v2/tenants/%s/databases/%s/collections/%s",
		c.cfg.BaseURL, c.cfg.Tenant, c.cfg.Database, c.cfg.Collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: build collection request: %w", vector.ErrStoreUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", vector.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: collection %q: status %d: %s",
			vector.ErrStoreUnavailable, c.cfg.Collection, resp.StatusCode, body)
	}

	var info collectionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("%w: decode collection: %w", vector.ErrStoreUnavailable, err)
	}
	if info.ID == "" {
		return fmt.Errorf("%w: collection %q has no id", vector.ErrStoreUnavailable, c.cfg.Collection)
	}

	c.collectionID = info.ID
	log.Debug().
		Str("collection", c.cfg.Collection).
		Str("collectionId", info.ID).
		Msg("Resolved ChromaDB collection")
	return nil
}

// post sends a JSON body to the collection endpoint and decodes the
// response into out.
func (c *Client) post(ctx context.Context, suffix string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.collectionURL(suffix), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", vector.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: status %d: %s", vector.ErrStoreUnavailable, suffix, resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", suffix, err)
	}
	return nil
}

// ListAll fetches every item with embeddings and metadata.
func (c *Client) ListAll(ctx context.Context) ([]vector.Item, error) {
	if err := c.resolveCollection(ctx); err != nil {
		return nil, err
	}

	payload := map[string]any{"include": []string{"embeddings", "metadatas"}}
	var resp getResponse
	if err := c.post(ctx, "/get", payload, &resp); err != nil {
		return nil, err
	}

	if len(resp.IDs) == 0 {
		return nil, vector.ErrEmptyCollection
	}

	items := make([]vector.Item, 0, len(resp.IDs))
	for i, id := range resp.IDs {
		item := vector.Item{ID: id}
		if i < len(resp.Embeddings) {
			item.Embedding = resp.Embeddings[i]
		}
		if i < len(resp.Metadatas) {
			item.Metadata = resp.Metadatas[i]
		}
		items = append(items, item)
	}
	return items, nil
}

// Nearest queries up to k nearest neighbors of the embedding.
func (c *Client) Nearest(ctx context.Context, embedding []float64, k int) ([]vector.Neighbor, error) {
	if err := c.resolveCollection(ctx); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"query_embeddings": [][]float64{embedding},
		"n_results":        k,
		"include":          []string{"distances"},
	}
	var resp queryResponse
	if err := c.post(ctx, "/query", payload, &resp); err != nil {
		return nil, err
	}

	if len(resp.IDs) == 0 {
		return nil, nil
	}

	ids := resp.IDs[0]
	var distances []float64
	if len(resp.Distances) > 0 {
		distances = resp.Distances[0]
	}

	neighbors := make([]vector.Neighbor, 0, len(ids))
	for i, id := range ids {
		n := vector.Neighbor{ID: id}
		if i < len(distances) {
			n.Distance = distances[i]
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, nil
}

// Count returns the number of items in the collection.
func (c *Client) Count(ctx context.Context) (int64, error) {
	if err := c.resolveCollection(ctx); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.collectionURL("/count"), nil)
	if err != nil {
		return 0, fmt.Errorf("build count request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", vector.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: count: status %d", vector.ErrStoreUnavailable, resp.StatusCode)
	}

	var count int64
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	return count, nil
}
