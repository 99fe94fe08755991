package gesture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http") + "/landmarks"
}

func TestFeedDeliversFrames(t *testing.T) {
	frames := make(chan Frame, 4)
	feed := NewFeed("", nil)
	srv := httptest.NewServer(feed.Handler(func(f Frame) { frames <- f }))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv.URL), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	want := Frame{Hands: []Hand{{Label: "Right", Landmarks: make([]Landmark, LandmarkCount)}}}
	if err := conn.WriteJSON(want); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-frames:
		if len(got.Hands) != 1 || !got.Hands[0].IsRight() || len(got.Hands[0].Landmarks) != LandmarkCount {
			t.Errorf("frame = %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame delivered")
	}
}

func TestFeedHealthz(t *testing.T) {
	srv := httptest.NewServer(NewFeed("", nil).Handler(func(Frame) {}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestFeedStartStop(t *testing.T) {
	feed := NewFeed("127.0.0.1:0", nil)
	feed.Stop() // before Start

	feed = NewFeed("127.0.0.1:0", nil)
	frames := make(chan Frame, 1)
	if err := feed.Start(context.Background(), func(f Frame) { frames <- f }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := feed.Start(context.Background(), func(Frame) {}); err != ErrAlreadyStarted {
		t.Errorf("second Start err = %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+feed.Addr()+"/landmarks", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if err := conn.WriteJSON(Frame{}); err != nil {
		t.Fatal(err)
	}
	select {
	case <-frames:
	case <-time.After(2 * time.Second):
		t.Fatal("no frame delivered")
	}

	feed.Stop()
	feed.Stop()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection still open after Stop")
	}
	if err := feed.Start(context.Background(), func(Frame) {}); err != ErrStopped {
		t.Errorf("Start after Stop err = %v", err)
	}
}

func TestFeedStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	feed := NewFeed("127.0.0.1:0", nil)
	if err := feed.Start(ctx, func(Frame) {}); err != nil {
		t.Fatal(err)
	}
	addr := feed.Addr()
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return
		}
		resp.Body.Close()
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("feed still serving after context cancel")
}
