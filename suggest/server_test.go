package suggest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, gen Generator, opts ...ServerOption) *httptest.Server {
	opts = append([]ServerOption{WithLogger(log.New(io.Discard, "", 0))}, opts...)
	ts := httptest.NewServer(NewServer(gen, opts...))
	t.Cleanup(ts.Close)
	return ts
}

func TestServerSuggest(t *testing.T) {
	var gotN int
	gen := GeneratorFunc(func(ctx context.Context, input string, n int) ([]string, error) {
		gotN = n
		switch input {
		case "fev":
			return []string{"fever", "feverish chills"}, nil
		case "boom":
			return nil, errors.New("model unavailable")
		}
		return nil, nil
	})
	ts := newTestServer(t, gen, WithCount(5))

	post := func(body string) (int, string) {
		resp, err := http.Post(ts.URL+"/suggest", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, strings.TrimSpace(string(data))
	}

	code, body := post(`{"input":"fev"}`)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"suggestions":["fever","feverish chills"]}`, body)
	require.Equal(t, 5, gotN)

	// Empty input and empty results both yield an empty list, never null.
	code, body = post(`{"input":""}`)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"suggestions":[]}`, body)
	code, body = post(`{"input":"nothing"}`)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"suggestions":[]}`, body)

	code, _ = post(`{"input":"boom"}`)
	require.Equal(t, http.StatusInternalServerError, code)

	code, _ = post(`{"input":`)
	require.Equal(t, http.StatusBadRequest, code)

	resp, err := http.Get(ts.URL + "/suggest")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServerPrompts(t *testing.T) {
	ts := newTestServer(t, GeneratorFunc(func(context.Context, string, int) ([]string, error) {
		return nil, nil
	}))
	c := NewClient(ts.URL + "/")

	status, err := c.Status(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Server is Up and Running...", status)

	placeholder, err := c.FirstPrompt(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Type something here...", placeholder)

	resp, err := http.Get(ts.URL + "/no-such-page")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServerCORS(t *testing.T) {
	ts := newTestServer(t, GeneratorFunc(func(context.Context, string, int) ([]string, error) {
		return nil, nil
	}))

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/suggest", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")

	resp, err = http.Post(ts.URL+"/suggest", "application/json", bytes.NewReader([]byte(`{"input":""}`)))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
