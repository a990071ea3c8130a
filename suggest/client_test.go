package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientSuggest(t *testing.T) {
	ts := newTestServer(t, GeneratorFunc(func(ctx context.Context, input string, n int) ([]string, error) {
		return []string{input + "er"}, nil
	}))
	c := NewClient(ts.URL)

	suggestions, err := c.Suggest(context.Background(), "fev")
	require.NoError(t, err)
	require.Equal(t, []string{"fever"}, suggestions)

	suggestions, err = c.Suggest(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, suggestions)
}

func TestClientErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/suggest":
			var req Request
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Input == "slow" {
				<-r.Context().Done()
				return
			}
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		case "/get-first-prompt":
			_, _ = w.Write([]byte("not json"))
		}
	}))
	defer ts.Close()
	c := NewClient(ts.URL, WithHTTPClient(ts.Client()))

	_, err := c.Suggest(context.Background(), "fev")
	require.EqualError(t, err, "POST /suggest: 503 Service Unavailable")

	_, err = c.FirstPrompt(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "decoding response")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Suggest(ctx, "slow")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// Nothing is listening.
	ts.Close()
	_, err = c.Status(context.Background())
	require.Error(t, err)
}
