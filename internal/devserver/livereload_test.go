package devserver

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readEvent returns the next SSE data line, skipping comments and blank lines.
func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "data: ") {
			return strings.TrimPrefix(line, "data: ")
		}
	}
}

func connect(t *testing.T, url string) (*bufio.Reader, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return bufio.NewReader(resp.Body), cancel
}

func TestLiveReloadHub_BroadcastsTokens(t *testing.T) {
	hub := NewLiveReloadHub(quietLogger(), nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	r, cancel := connect(t, srv.URL)
	defer cancel()

	initial := readEvent(t, r)
	assert.Contains(t, initial, `"hash":"`)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast("abc")
	assert.Equal(t, `{"hash":"abc"}`, readEvent(t, r))

	// Repeating the current token is a no-op; the next distinct one arrives.
	hub.Broadcast("abc")
	hub.Broadcast("def")
	assert.Equal(t, `{"hash":"def"}`, readEvent(t, r))
}

func TestLiveReloadHub_LateClientSeesCurrentToken(t *testing.T) {
	hub := NewLiveReloadHub(quietLogger(), nil)
	hub.Broadcast("v2")
	srv := httptest.NewServer(hub)
	defer srv.Close()

	r, cancel := connect(t, srv.URL)
	defer cancel()
	assert.Equal(t, `{"hash":"v2"}`, readEvent(t, r))
}

func TestLiveReloadHub_DisconnectRemovesClient(t *testing.T) {
	hub := NewLiveReloadHub(quietLogger(), nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	r, cancel := connect(t, srv.URL)
	readEvent(t, r)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestLiveReloadHub_Shutdown(t *testing.T) {
	hub := NewLiveReloadHub(quietLogger(), nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	r, cancel := connect(t, srv.URL)
	defer cancel()
	readEvent(t, r)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Shutdown()
	assert.Equal(t, 0, hub.Clients())

	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livereload", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
