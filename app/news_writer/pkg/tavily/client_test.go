package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/news_writer/app/news_writer/pkg/search"
)

func TestSearch(t *testing.T) {
	type captured struct {
		auth string
		body SearchRequest
	}
	reqs := make(chan captured, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body SearchRequest
		json.NewDecoder(r.Body).Decode(&body)
		reqs <- captured{auth: r.Header.Get("Authorization"), body: body}

		json.NewEncoder(w).Encode(SearchResponse{
			Results: []SearchResult{{
				Title:         "Stocks rally",
				URL:           "https://www.cnbc.com/2026/02/26/stocks.html",
				Content:       "Wall Street closed higher.",
				PublishedDate: "Thu, 26 Feb 2026 20:00:00 GMT",
			}},
		})
	}))
	defer srv.Close()

	c := NewClient("tvly-key")
	c.endpoint = srv.URL

	resp, err := c.Search(context.Background(), &search.Request{
		Query:    "stocks",
		From:     time.Date(2026, 2, 25, 23, 0, 0, 0, time.UTC),
		PageSize: 10,
	})
	require.NoError(t, err)

	got := <-reqs
	assert.Equal(t, "Bearer tvly-key", got.auth)
	assert.Equal(t, "stocks", got.body.Query)
	assert.Equal(t, "news", got.body.Topic)
	assert.Equal(t, 10, got.body.MaxResults)
	assert.Equal(t, "2026-02-25", got.body.StartDate)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Wall Street closed higher.", resp.Results[0].Description)
	assert.Equal(t, "cnbc.com", resp.Results[0].SourceName)
}

func TestSearch_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad")
	c.endpoint = srv.URL

	_, err := c.Search(context.Background(), &search.Request{Query: "stocks"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
