package nats

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/RANForge/ranforge/internal/port/eventbus"
)

// testConnect connects to NATS or skips the test if NATS_URL is not set.
func testConnect(t *testing.T) *Bus {
	t.Helper()

	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("requires NATS_URL")
	}

	b, err := Connect(context.Background(), url)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() {
		if err := b.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return b
}

// uniqueSubject returns a test subject under the "stages." prefix which
// the RANFORGE stream captures (stages.>).
func uniqueSubject(t *testing.T) string {
	t.Helper()
	// Use test name to avoid collisions between parallel tests.
	return "stages.test." + t.Name()
}

func TestBus_PublishSubscribe(t *testing.T) {
	b := testConnect(t)
	subject := uniqueSubject(t)

	want := eventbus.StageFinishedPayload{
		WorkflowID: "deploy-1",
		Stage:      "infrastructure",
		Agent:      "nephio-infrastructure-agent",
		Status:     "success",
	}
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var (
		mu       sync.Mutex
		received *eventbus.StageFinishedPayload
		done     = make(chan struct{})
		once     sync.Once
	)

	stop, err := b.Subscribe(context.Background(), subject, func(_ context.Context, subj string, d []byte) error {
		var got eventbus.StageFinishedPayload
		if err := json.Unmarshal(d, &got); err != nil {
			return err
		}
		mu.Lock()
		received = &got
		mu.Unlock()
		once.Do(func() { close(done) })
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer stop()

	if err := b.Publish(context.Background(), subject, data); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}

	mu.Lock()
	defer mu.Unlock()

	if received == nil {
		t.Fatal("handler was not called")
	}
	if received.Stage != want.Stage || received.WorkflowID != want.WorkflowID {
		t.Errorf("got %+v, want %+v", *received, want)
	}
}

func TestBus_IsConnected(t *testing.T) {
	b := testConnect(t)

	if !b.IsConnected() {
		t.Error("IsConnected() = false after Connect, want true")
	}
}
