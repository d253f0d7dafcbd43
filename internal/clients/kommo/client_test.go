package kommo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trackflow/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	c := NewClient(baseURL, observability.NewLogger())
	c.backoffBase = time.Millisecond
	return c
}

func TestFetchLeadSourcesBuildsQuery(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"campaigns":[{"campaign":"Summer Sale","groups":[]}]}`))
	}))
	defer server.Close()

	from := time.Unix(1700000000, 0)
	to := time.Unix(1700600000, 0)
	report, err := testClient(server.URL).FetchLeadSources(
		context.Background(), "acme", []string{"Lead", "Qualified", "Won"}, from, to)
	require.NoError(t, err)

	assert.Equal(t, []string{"acme"}, gotQuery["subdomain"])
	assert.Equal(t, []string{"Lead", "Qualified", "Won"}, gotQuery["lead_journey"])
	assert.Equal(t, []string{"1700000000"}, gotQuery["created_at_from"])
	assert.Equal(t, []string{"1700600000"}, gotQuery["created_at_to"])
	require.Len(t, report.Campaigns, 1)
	assert.Equal(t, "Summer Sale", report.Campaigns[0].Campaign)
}

func TestFetchLeadSourcesRetriesNonOKStatus(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"campaigns":[]}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchLeadSources(
		context.Background(), "acme", []string{"Lead"}, time.Unix(0, 0), time.Unix(1, 0))
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestFetchLeadSourcesExhaustsRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchLeadSources(
		context.Background(), "acme", []string{"Lead"}, time.Unix(0, 0), time.Unix(1, 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchExhausted))
	assert.Equal(t, 3, calls)
}

func TestFetchLeadSourcesHonorsContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(server.URL, observability.NewLogger())
	c.backoffBase = time.Minute
	_, err := c.FetchLeadSources(ctx, "acme", []string{"Lead"}, time.Unix(0, 0), time.Unix(1, 0))
	require.Error(t, err)
}
