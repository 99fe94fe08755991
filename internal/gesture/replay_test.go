package gesture

import (
	"context"
	"strings"
	"testing"
	"time"
)

const recording = `{"hands":[]}

{"hands":[{"label":"Left","landmarks":[]}]}
`

func TestReadReplay(t *testing.T) {
	r, err := ReadReplay(strings.NewReader(recording), time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}

	if _, err := ReadReplay(strings.NewReader("{oops}\n"), 0); err == nil {
		t.Error("expected parse error")
	}
}

func TestReplayLoopsAndStops(t *testing.T) {
	r, err := ReadReplay(strings.NewReader(recording), time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	got := make(chan Frame, 16)
	if err := r.Start(context.Background(), func(f Frame) {
		select {
		case got <- f:
		default:
		}
	}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		select {
		case <-got:
		case <-time.After(2 * time.Second):
			t.Fatalf("frame %d not delivered", i)
		}
	}

	r.Stop()
	r.Stop()
	if err := r.Start(context.Background(), func(Frame) {}); err != ErrStopped {
		t.Errorf("Start after Stop err = %v", err)
	}
}

func TestPipelinePublishesExtractedSamples(t *testing.T) {
	r, err := ReadReplay(strings.NewReader(`{"hands":[]}`), time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	box := NewMailbox()
	p := NewPipeline(r, box, nil)
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer p.Stop()

	select {
	case <-box.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("nothing published")
	}
	s, ok := box.Consume()
	if !ok || s != Quiescent {
		t.Errorf("Consume = %+v, %v", s, ok)
	}
	if p.Frames() == 0 {
		t.Error("Frames = 0")
	}
}
