package notion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(Config{
		Token:             "secret-token",
		BaseURL:           server.URL,
		RequestsPerSecond: -1,
	})
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()
	c := NewClient(Config{Token: "x"})
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultVersion, c.version)
	assert.NotNil(t, c.http)
	assert.InDelta(t, DefaultRequestsPerSecond, float64(c.limiter.Limit()), 0.001)
}

func TestQueryAll_FollowsCursor(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/databases/db-1/query", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, DefaultVersion, r.Header.Get("Notion-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req queryRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, pageSize, req.PageSize)

		switch req.StartCursor {
		case "":
			w.Write([]byte(`{"results":[{"id":"p1","properties":{}}],"next_cursor":"c2","has_more":true}`))
		case "c2":
			w.Write([]byte(`{"results":[{"id":"p2","properties":{}},{"id":"p3","properties":{}}],"next_cursor":null,"has_more":false}`))
		default:
			t.Errorf("unexpected cursor %q", req.StartCursor)
		}
	})

	pages, err := c.QueryAll(context.Background(), "db-1")
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "p1", pages[0].ID)
	assert.Equal(t, "p3", pages[2].ID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestQueryAll_ErrorAbortsFetch(t *testing.T) {
	t.Parallel()
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.StartCursor == "" {
			w.Write([]byte(`{"results":[{"id":"p1"}],"next_cursor":"c2"}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"object":"error","status":400,"code":"validation_error","message":"bad cursor"}`))
	})

	pages, err := c.QueryAll(context.Background(), "db-1")
	require.Error(t, err)
	assert.Nil(t, pages)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "validation_error", apiErr.Code)
	assert.Equal(t, "bad cursor", apiErr.Message)
}

func TestQueryDatabase_DecodesProperties(t *testing.T) {
	t.Parallel()
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"id":"p1","properties":{
			"Name":{"id":"title","type":"title","title":[{"plain_text":"GET_WIDGET_QUERY"},{"plain_text":" extra"}]},
			"Type":{"id":"a","type":"select","select":{"id":"o1","name":"Admin Query"}},
			"Status":{"id":"b","type":"status","status":{"id":"s1","name":"In Progress"}},
			"Notes":{"id":"c","type":"rich_text","rich_text":[]},
			"Owner":{"id":"d","type":"people","people":[]}
		}}],"next_cursor":null}`))
	})

	res, err := c.QueryDatabase(context.Background(), "db", "")
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	props := res.Results[0].Properties

	name, ok := props["Name"].Text()
	assert.True(t, ok)
	assert.Equal(t, "GET_WIDGET_QUERY", name)

	typ, ok := props["Type"].Text()
	assert.True(t, ok)
	assert.Equal(t, "Admin Query", typ)

	status, ok := props["Status"].Text()
	assert.True(t, ok)
	assert.Equal(t, "In Progress", status)

	_, ok = props["Notes"].Text()
	assert.False(t, ok)
	_, ok = props["Owner"].Text()
	assert.False(t, ok)
}

func TestUpdateOption_Payload(t *testing.T) {
	t.Parallel()
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/pages/page-9", r.URL.Path)

		var body map[string]map[string]map[string]map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Deployed to Dev", body["properties"]["Status"]["status"]["name"])
		w.Write([]byte(`{"object":"page","id":"page-9"}`))
	})

	require.NoError(t, c.Database("db").UpdateOption(context.Background(), "page-9", "Status", KindStatus, "Deployed to Dev"))
}

func TestDo_RetriesRateLimit(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	})

	require.NoError(t, c.UpdateOption(context.Background(), "p", "Status", KindSelect, "x"))
	assert.Equal(t, int32(3), calls.Load())
}

func TestDo_RateLimitExhausted(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"object":"error","status":429,"code":"rate_limited","message":"slow down"}`))
	})

	err := c.UpdateOption(context.Background(), "p", "Status", KindSelect, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(maxRetries+1), calls.Load())
}

func TestDo_NonJSONError(t *testing.T) {
	t.Parallel()
	c := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	err := c.UpdateOption(context.Background(), "p", "Status", KindSelect, "x")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestRetryAfter(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 2*time.Second, retryAfter("2"))
	assert.Equal(t, 500*time.Millisecond, retryAfter("0.5"))
	assert.Equal(t, defaultRetryAfter, retryAfter(""))
	assert.Equal(t, defaultRetryAfter, retryAfter("soon"))
}
