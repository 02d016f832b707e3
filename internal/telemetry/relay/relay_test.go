package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Snehil208001/Gr-nZimmer/internal/telemetry/domain"
	"github.com/Snehil208001/Gr-nZimmer/internal/telemetry/loki"
)

// scriptedReader replays messages and errors, then cancels the run.
type scriptedReader struct {
	steps  []func() (kafka.Message, error)
	cancel context.CancelFunc
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.steps) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	step := r.steps[0]
	r.steps = r.steps[1:]
	return step()
}

func message(offset int64, v string) func() (kafka.Message, error) {
	return func() (kafka.Message, error) { return kafka.Message{Offset: offset, Value: []byte(v)}, nil }
}

type recordingPusher struct {
	mu    sync.Mutex
	lines []string
	fail  map[string]bool
}

func (p *recordingPusher) PushEventJSON(ctx context.Context, raw []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail[string(raw)] {
		return errors.New("loki down")
	}
	p.lines = append(p.lines, string(raw))
	return nil
}

func TestRun_PushesUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &scriptedReader{cancel: cancel, steps: []func() (kafka.Message, error){
		message(1, `{"event_type":"otp_sent"}`),
		func() (kafka.Message, error) { return kafka.Message{}, errors.New("broker unavailable") },
		message(2, `{"event_type":"logout"}`),
		message(3, "bad"),
	}}
	pusher := &recordingPusher{fail: map[string]bool{"bad": true}}

	n := New(reader, pusher, time.Second).Run(ctx)
	if n != 2 {
		t.Errorf("pushed = %d, want 2", n)
	}
	if len(pusher.lines) != 2 || pusher.lines[1] != `{"event_type":"logout"}` {
		t.Errorf("lines = %v", pusher.lines)
	}
}

func TestRun_ToLoki(t *testing.T) {
	var got loki.PushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	client, err := loki.NewClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ev, _ := json.Marshal(domain.Event{EventType: domain.EventOTPVerified, Source: domain.SourceAuthService, CreatedAt: time.Now()})
	ctx, cancel := context.WithCancel(context.Background())
	reader := &scriptedReader{cancel: cancel, steps: []func() (kafka.Message, error){message(7, string(ev))}}

	if n := New(reader, client, 0).Run(ctx); n != 1 {
		t.Fatalf("pushed = %d, want 1", n)
	}
	if len(got.Streams) != 1 || got.Streams[0].Stream["event_type"] != domain.EventOTPVerified {
		t.Errorf("push = %+v", got)
	}
}
