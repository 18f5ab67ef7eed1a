package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/miljoverk/samsvar/internal/logging"
	"github.com/miljoverk/samsvar/internal/repositories"
)

// waitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func waitForReady(ctx context.Context, endpoint string) error {
	timeout := 1 * time.Second
	client := http.Client{}
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			endpoint,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(250 * time.Millisecond)
		}
	}
}

// testLookupEnv gives every test server an ephemeral port, an in-memory database and a
// scratch media directory.
func testLookupEnv(t *testing.T) func(string) (string, bool) {
	t.Helper()
	mediaRoot := t.TempDir()
	return func(key string) (string, bool) {
		switch key {
		case "SAMSVAR_ADDR":
			return "localhost:0", true
		case "SAMSVAR_SQLITE_URL":
			return ":memory:", true
		case "SAMSVAR_MEDIA_ROOT":
			return mediaRoot, true
		case "SAMSVAR_PPROF_PORT":
			return ":0", true
		default:
			return "", false
		}
	}
}

type testServer struct {
	url    string
	client http.Client
}

// startTestServer starts the test server, waits for it to be ready, and returns the
// server URL for testing.
func startTestServer(t *testing.T, w io.Writer) testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// We need to grab the dynamically allocated port from the log output.
	addrCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "Addr" {
				addrCh <- a.Value.String()
			}
			return a
		},
	})))

	// Start the server and wait for it to be ready.
	go func() {
		if err := run(ctx, logger, testLookupEnv(t)); err != nil {
			cancel()
			assert.NoError(t, err)
		}
	}()
	select {
	case <-ctx.Done():
		t.Fatal("server failed to start")
		return testServer{}
	case addr := <-addrCh:
		serverURL := fmt.Sprintf("http://%s", addr)
		if err := waitForReady(ctx, fmt.Sprintf("%s/api/healthy", serverURL)); err != nil {
			require.NoError(t, err)
		}
		return testServer{
			url:    serverURL,
			client: http.Client{},
		}
	}
}

// Get fetches a URL and returns the response.
func (s *testServer) Get(t *testing.T, urlPath string) *http.Response {
	t.Helper()
	resp, err := s.client.Get(s.url + urlPath)
	require.NoError(t, err)
	return resp
}

func TestServerEndpoints(t *testing.T) {
	server := startTestServer(t, io.Discard)

	t.Run("healthy", func(t *testing.T) {
		resp := server.Get(t, "/api/healthy")
		defer func() {
			require.NoError(t, resp.Body.Close())
		}()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("audit criteria listing is seeded", func(t *testing.T) {
		resp := server.Get(t, "/api/audit-criteria")
		defer func() {
			require.NoError(t, resp.Body.Close())
		}()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var listings []repositories.CriteriaListing
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&listings))
		require.NotEmpty(t, listings)
		assert.Equal(t, "MAN03-1", listings[0].CriteriaID)
	})

	t.Run("criteria context", func(t *testing.T) {
		resp := server.Get(t, "/api/process-criteria-data/MAN03-1")
		defer func() {
			require.NoError(t, resp.Body.Close())
		}()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown task status", func(t *testing.T) {
		resp := server.Get(t, "/api/task-status/does-not-exist")
		defer func() {
			require.NoError(t, resp.Body.Close())
		}()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
