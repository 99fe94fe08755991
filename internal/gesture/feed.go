package gesture

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// Feed is a Source fed over WebSocket. An external landmark detector
// connects to /landmarks and sends one JSON Frame per message:
//
//	{"hands":[{"label":"Left","landmarks":[{"x":0.5,"y":0.4}, ...]}]}
//
// Several detectors may connect; frames are delivered in arrival order.
type Feed struct {
	addr   string
	logger *slog.Logger

	mu      sync.Mutex
	srv     *http.Server
	ln      net.Listener
	conns   map[*websocket.Conn]struct{}
	started bool
	stopped atomic.Bool
	wg      sync.WaitGroup
}

func NewFeed(addr string, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		addr:   addr,
		logger: logger,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the feed's routes with frames delivered to onFrame.
func (f *Feed) Handler(onFrame func(Frame)) http.Handler {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/landmarks", func(w http.ResponseWriter, r *http.Request) {
		if f.stopped.Load() {
			http.Error(w, "stopped", http.StatusServiceUnavailable)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if !f.track(conn) {
			_ = conn.Close()
			return
		}
		defer f.untrack(conn)
		f.serve(conn, onFrame)
	})
	return r
}

func (f *Feed) serve(conn *websocket.Conn, onFrame func(Frame)) {
	f.logger.Info("landmark detector connected", "remote", conn.RemoteAddr().String())
	defer f.logger.Info("landmark detector disconnected", "remote", conn.RemoteAddr().String())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !f.stopped.Load() {
				f.logger.Warn("landmark feed read", "error", err)
			}
			return
		}
		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			f.logger.Debug("landmark feed: bad frame", "error", err)
			continue
		}
		if f.stopped.Load() {
			return
		}
		onFrame(frame)
	}
}

func (f *Feed) track(conn *websocket.Conn) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped.Load() {
		return false
	}
	f.conns[conn] = struct{}{}
	return true
}

func (f *Feed) untrack(conn *websocket.Conn) {
	f.mu.Lock()
	delete(f.conns, conn)
	f.mu.Unlock()
	_ = conn.Close()
}

// Start listens on the feed address and serves until ctx is done or Stop
// is called.
func (f *Feed) Start(ctx context.Context, onFrame func(Frame)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped.Load() {
		return ErrStopped
	}
	if f.started {
		return ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", f.addr)
	if err != nil {
		return err
	}
	f.ln = ln
	f.srv = &http.Server{
		Handler:           f.Handler(onFrame),
		ReadHeaderTimeout: 5 * time.Second,
	}
	f.started = true

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		if err := f.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("landmark feed serve", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		f.Stop()
	}()

	f.logger.Info("landmark feed listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (f *Feed) Addr() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ln != nil {
		return f.ln.Addr().String()
	}
	return f.addr
}

// Stop closes the listener and every open detector connection.
func (f *Feed) Stop() {
	if !f.stopped.CompareAndSwap(false, true) {
		return
	}

	f.mu.Lock()
	srv := f.srv
	for conn := range f.conns {
		_ = conn.Close()
	}
	f.mu.Unlock()

	if srv != nil {
		_ = srv.Close()
	}
	f.wg.Wait()
}
