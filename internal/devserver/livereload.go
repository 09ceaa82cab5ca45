package devserver

import (
	"bufio"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitekiln/internal/metrics"
)

const heartbeatInterval = 30 * time.Second

// LiveReloadHub fans change tokens out to connected browsers over SSE.
type LiveReloadHub struct {
	mu        sync.RWMutex
	nextID    int
	clients   map[int]*lrClient
	recorder  metrics.Recorder
	logger    *slog.Logger
	closed    bool
	lastToken string
	heartbeat time.Duration
}

type lrClient struct {
	id   int
	ch   chan string
	done chan struct{}
}

// NewLiveReloadHub returns an empty hub. Every client receives the current
// token on connect.
func NewLiveReloadHub(logger *slog.Logger, rec metrics.Recorder) *LiveReloadHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveReloadHub{
		clients:   map[int]*lrClient{},
		recorder:  metrics.OrNoop(rec),
		logger:    logger,
		heartbeat: heartbeatInterval,
		lastToken: uuid.NewString(),
	}
}

// Clients returns the number of connected clients.
func (h *LiveReloadHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP streams change events until the client disconnects or the hub
// shuts down.
func (h *LiveReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	client := &lrClient{ch: make(chan string, 8), done: make(chan struct{})}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		http.Error(w, "livereload shutting down", http.StatusServiceUnavailable)
		return
	}
	client.id = h.nextID
	h.nextID++
	h.clients[client.id] = client
	current := h.lastToken
	n := len(h.clients)
	h.mu.Unlock()
	h.recorder.SetLiveReloadClients(n)
	defer h.removeClient(client.id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	bw := bufio.NewWriter(w)
	send := func(s string) bool {
		if _, err := bw.WriteString(s); err != nil {
			h.logger.Debug("livereload write", slog.Any("error", err))
			return false
		}
		if err := bw.Flush(); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(": connected\n\n" + event(current)) {
		return
	}

	hb := time.NewTicker(h.heartbeat)
	defer hb.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-client.done:
			return
		case <-hb.C:
			if !send(": ping\n\n") {
				return
			}
		case token := <-client.ch:
			if !send(event(token)) {
				return
			}
		}
	}
}

func event(token string) string {
	return "data: {\"hash\":\"" + token + "\"}\n\n"
}

func (h *LiveReloadHub) removeClient(id int) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(c.done)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.recorder.SetLiveReloadClients(n)
	}
}

// Broadcast sends token to every client. Clients whose buffer is full are
// dropped; repeated tokens are ignored.
func (h *LiveReloadHub) Broadcast(token string) {
	h.mu.Lock()
	if h.closed || token == "" || token == h.lastToken {
		h.mu.Unlock()
		return
	}
	h.lastToken = token
	snapshot := make([]*lrClient, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	dropped := 0
	for _, c := range snapshot {
		select {
		case c.ch <- token:
		default:
			dropped++
			h.removeClient(c.id)
		}
	}
	h.recorder.IncLiveReloadBroadcast()
	h.logger.Debug("livereload broadcast",
		slog.String("token", token),
		slog.Int("clients", len(snapshot)),
		slog.Int("dropped", dropped))
}

// Shutdown disconnects all clients and ignores later broadcasts.
func (h *LiveReloadHub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = map[int]*lrClient{}
	h.mu.Unlock()
	for _, c := range clients {
		close(c.done)
	}
	h.recorder.SetLiveReloadClients(0)
}

// liveReloadScript takes the first event as its baseline and reloads when a
// later event carries a different token.
const liveReloadScript = `(() => {
  if (window.__SITEKILN_LR__) return;
  window.__SITEKILN_LR__ = true;
  function connect() {
    const es = new EventSource('/livereload');
    let current = null;
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (current === null) { current = p.hash; return; }
        if (p.hash && p.hash !== current) {
          console.log('[sitekiln] change detected, reloading');
          location.reload();
        }
      } catch (_) {}
    };
    es.onerror = () => {
      console.warn('[sitekiln] livereload connection lost, retrying');
      es.close();
      setTimeout(connect, 2000);
    };
  }
  connect();
})();
`

func serveScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(liveReloadScript))
}
