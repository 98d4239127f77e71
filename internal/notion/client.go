// Package notion is a minimal client for the Notion REST API covering the
// two calls resolver reconciliation needs: paginated database queries and
// page property updates.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL           = "https://api.notion.com/v1"
	DefaultVersion           = "2022-06-28"
	DefaultRequestsPerSecond = 3

	pageSize          = 100
	maxRetries        = 3
	defaultRetryAfter = time.Second
)

// Config configures a Client. Zero values take the defaults above.
type Config struct {
	Token             string
	BaseURL           string
	Version           string
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client talks to the Notion API.
type Client struct {
	token   string
	baseURL string
	version string
	http    *http.Client
	limiter *rate.Limiter

	// sleep waits out a Retry-After delay; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Client.
func NewClient(cfg Config) *Client {
	c := &Client{
		token:   cfg.Token,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		version: cfg.Version,
		http:    cfg.HTTPClient,
		sleep:   sleepCtx,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.version == "" {
		c.version = DefaultVersion
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	rps := cfg.RequestsPerSecond
	if rps == 0 {
		rps = DefaultRequestsPerSecond
	}
	if rps < 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
	} else {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return c
}

// QueryDatabase fetches one page of rows. An empty cursor starts from the
// beginning.
func (c *Client) QueryDatabase(ctx context.Context, databaseID, cursor string) (*QueryResult, error) {
	var res QueryResult
	path := "/databases/" + url.PathEscape(databaseID) + "/query"
	if err := c.do(ctx, http.MethodPost, path, queryRequest{StartCursor: cursor, PageSize: pageSize}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// QueryAll follows the cursor until the database is exhausted.
func (c *Client) QueryAll(ctx context.Context, databaseID string) ([]Page, error) {
	var pages []Page
	cursor := ""
	for {
		res, err := c.QueryDatabase(ctx, databaseID, cursor)
		if err != nil {
			return nil, err
		}
		pages = append(pages, res.Results...)
		if res.NextCursor == "" {
			return pages, nil
		}
		cursor = res.NextCursor
	}
}

// UpdateOption sets a select or status property (kind) of a page to the
// option called name.
func (c *Client) UpdateOption(ctx context.Context, pageID, property, kind, name string) error {
	payload := map[string]any{
		"properties": map[string]any{
			property: map[string]any{
				kind: Option{Name: name},
			},
		},
	}
	return c.do(ctx, http.MethodPatch, "/pages/"+url.PathEscape(pageID), payload, nil)
}

// Database binds a Client to one database id.
type Database struct {
	client *Client
	id     string
}

// Database returns a handle for the database with the given id.
func (c *Client) Database(id string) *Database {
	return &Database{client: c, id: id}
}

// Query fetches one page of the database's rows.
func (d *Database) Query(ctx context.Context, cursor string) (*QueryResult, error) {
	return d.client.QueryDatabase(ctx, d.id, cursor)
}

// UpdateOption sets a select or status property of one of the database's
// pages.
func (d *Database) UpdateOption(ctx context.Context, pageID, property, kind, name string) error {
	return d.client.UpdateOption(ctx, pageID, property, kind, name)
}

// do performs a JSON request and decodes a 2xx response into v. Rate
// limited responses are retried up to maxRetries times.
func (c *Client) do(ctx context.Context, method, path string, payload, v any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("notion: encode request payload: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("notion: %s %s: %w", method, path, err)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("notion: %s %s: %w", method, path, err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Notion-Version", c.version)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("notion: %s %s: %w", method, path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries {
			wait := retryAfter(resp.Header.Get("Retry-After"))
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if err := c.sleep(ctx, wait); err != nil {
				return fmt.Errorf("notion: %s %s: %w", method, path, err)
			}
			continue
		}

		err = decodeResponse(resp, v)
		resp.Body.Close()
		return err
	}
}

func decodeResponse(resp *http.Response, v any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		data, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("notion: decode response: %w", err)
	}
	return nil
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h string) time.Duration {
	secs, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil || secs <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs * float64(time.Second))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
