package searxng

import (
	"context"
	"encoding/json"
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
	reqs := make(chan *url.URL, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqs <- r.URL
		json.NewEncoder(w).Encode(SearchResponse{Results: []SearchResult{
			{Title: "a", URL: "https://www.ft.com/a", Content: "ca"},
			{Title: "b", URL: "https://www.ft.com/b", Content: "cb"},
			{Title: "c", URL: "https://www.ft.com/c", Content: "cc"},
		}})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, 5).Search(context.Background(), &search.Request{
		Query:    "earnings",
		Language: "en",
		From:     time.Now().Add(-2 * time.Hour),
		PageSize: 2,
	})
	require.NoError(t, err)

	got := <-reqs
	assert.Equal(t, "/search", got.Path)
	assert.Equal(t, "earnings", got.Query().Get("q"))
	assert.Equal(t, "json", got.Query().Get("format"))
	assert.Equal(t, "news", got.Query().Get("categories"))
	assert.Equal(t, "day", got.Query().Get("time_range"))

	require.Len(t, resp.Results, 2)
	assert.Equal(t, "ca", resp.Results[0].Description)
	assert.Equal(t, "ft.com", resp.Results[1].SourceName)
}

func TestTimeRange(t *testing.T) {
	assert.Equal(t, "", timeRange(time.Time{}))
	assert.Equal(t, "day", timeRange(time.Now().Add(-time.Hour)))
	assert.Equal(t, "month", timeRange(time.Now().Add(-72*time.Hour)))
	assert.Equal(t, "year", timeRange(time.Now().Add(-90*24*time.Hour)))
}
