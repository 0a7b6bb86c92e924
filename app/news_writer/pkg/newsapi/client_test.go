package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/news_writer/app/news_writer/pkg/search"
)

func TestSearch(t *testing.T) {
	payload := map[string]interface{}{
		"status":       "ok",
		"totalResults": 2,
		"articles": []map[string]interface{}{
			{
				"source":      map[string]interface{}{"id": "reuters", "name": "Reuters"},
				"title":       "Fed Holds Rates Steady",
				"description": "The Federal Reserve kept interest rates unchanged.",
				"url":         "https://example.com/fed-rates",
				"publishedAt": "2026-02-26T12:00:00Z",
			},
			{
				"source":      map[string]interface{}{"id": nil, "name": "Yahoo Entertainment"},
				"title":       nil,
				"description": "No headline here.",
				"url":         "https://example.com/untitled",
				"publishedAt": "2026-02-26T11:00:00Z",
			},
		},
	}

	reqs := make(chan *url.URL, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqs <- r.URL
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	client := NewClient("test-key", srv.URL, 5)
	from := time.Date(2026, 2, 25, 12, 30, 0, 0, time.FixedZone("CST", 8*3600))

	resp, err := client.Search(context.Background(), &search.Request{
		Query:    "stock market OR stocks OR finance",
		Language: "en",
		SortBy:   "publishedAt",
		Sources:  []string{"reuters", "bloomberg"},
		From:     from,
		PageSize: 20,
	})
	require.NoError(t, err)

	got := <-reqs
	assert.Equal(t, "/v2/everything", got.Path)
	q := got.Query()
	assert.Equal(t, "stock market OR stocks OR finance", q.Get("q"))
	assert.Equal(t, "en", q.Get("language"))
	assert.Equal(t, "publishedAt", q.Get("sortBy"))
	assert.Equal(t, "reuters,bloomberg", q.Get("sources"))
	assert.Equal(t, "2026-02-25T04:30:00Z", q.Get("from"))
	assert.Equal(t, "20", q.Get("pageSize"))
	assert.Equal(t, "test-key", q.Get("apiKey"))

	require.Len(t, resp.Results, 2)
	assert.Equal(t, search.Result{
		Title:       "Fed Holds Rates Steady",
		Description: "The Federal Reserve kept interest rates unchanged.",
		URL:         "https://example.com/fed-rates",
		PublishedAt: "2026-02-26T12:00:00Z",
		SourceName:  "Reuters",
	}, resp.Results[0])
	assert.Equal(t, "", resp.Results[1].Title)
	assert.Equal(t, "Yahoo Entertainment", resp.Results[1].SourceName)
}

func TestSearch_OptionalParamsOmitted(t *testing.T) {
	reqs := make(chan *url.URL, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqs <- r.URL
		fmt.Fprint(w, `{"status":"ok","totalResults":0,"articles":[]}`)
	}))
	defer srv.Close()

	resp, err := NewClient("k", srv.URL, 0).Search(context.Background(), &search.Request{Query: "stocks"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)

	q := (<-reqs).Query()
	assert.False(t, q.Has("sources"))
	assert.False(t, q.Has("from"))
	assert.False(t, q.Has("language"))
	assert.Equal(t, "20", q.Get("pageSize"))
}

func TestSearch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`)
	}))
	defer srv.Close()

	resp, err := NewClient("bad", srv.URL, 5).Search(context.Background(), &search.Request{Query: "stocks"})
	require.Error(t, err)
	assert.Nil(t, resp)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "apiKeyInvalid", statusErr.Code)
	assert.Contains(t, err.Error(), "401")
}

func TestSearch_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient("k", srv.URL, 5).Search(context.Background(), &search.Request{Query: "stocks"})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "newsapi error (status 502)", err.Error())
}

func TestSearch_ErrorStatusInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error","code":"rateLimited","message":"slow down"}`)
	}))
	defer srv.Close()

	_, err := NewClient("k", srv.URL, 5).Search(context.Background(), &search.Request{Query: "stocks"})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "rateLimited", statusErr.Code)
}

func TestSearch_CapsResults(t *testing.T) {
	articles := make([]map[string]interface{}, 25)
	for i := range articles {
		articles[i] = map[string]interface{}{"title": fmt.Sprintf("t%d", i), "description": "d"}
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "ok", "articles": articles})
	}))
	defer srv.Close()

	resp, err := NewClient("k", srv.URL, 5).Search(context.Background(), &search.Request{Query: "q", PageSize: 3})
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "t0", resp.Results[0].Title)
	assert.Equal(t, "t2", resp.Results[2].Title)
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 20, clampPageSize(0))
	assert.Equal(t, 20, clampPageSize(-4))
	assert.Equal(t, 7, clampPageSize(7))
	assert.Equal(t, 20, clampPageSize(100))
}
