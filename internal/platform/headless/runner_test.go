package headless

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/scriptmaze/internal/config"
	"github.com/vovakirdan/scriptmaze/internal/platform/web"
)

type memStore struct {
	mu      sync.Mutex
	last    string
	outcome string
	steps   int
	runs    int
}

func (m *memStore) LastLevel() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, nil
}

func (m *memStore) SetLastLevel(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = name
	return nil
}

func (m *memStore) RecordRun(levelID, outcome string, steps int, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs++
	m.outcome = outcome
	m.steps = steps
	return nil
}

// lockedBuffer keeps the race detector quiet when a test reads output while
// another goroutine could still be writing.
type lockedBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

func instantConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Game.Animations = config.AnimationConfig{}
	cfg.Game.TickRateHz = 120 // keep the test quick
	return cfg
}

func TestRunWalksToTheExit(t *testing.T) {
	store := &memStore{}
	out := &lockedBuffer{}

	err := Run(Options{
		Config: instantConfig(),
		Store:  store,
		Source: "step(); step(); step(); step();",
		Level:  "01-first-steps",
		Out:    out,
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"level loaded",
		"you made it! level complete",
		"finished: won after 4 steps",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Output missing %q:\n%s", want, text)
		}
	}

	if store.outcome != "won" || store.steps != 4 {
		t.Errorf("Recorded run = (%q, %d), want (won, 4)", store.outcome, store.steps)
	}
}

func TestRunReportsThrownError(t *testing.T) {
	err := Run(Options{
		Config: instantConfig(),
		Store:  &memStore{},
		Source: "step(); throw new Error('boom');",
		Level:  "01-first-steps",
	})
	if err == nil {
		t.Fatal("Expected the thrown error back")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error %q does not carry the script's message", err)
	}
}

func TestRunRejectsUnknownLevel(t *testing.T) {
	err := Run(Options{
		Config: instantConfig(),
		Store:  &memStore{},
		Source: "step()",
		Level:  "no-such-level",
	})
	if err == nil {
		t.Fatal("Expected a load failure")
	}
	if !strings.Contains(err.Error(), "unknown level") {
		t.Errorf("Error %q does not explain the rejection", err)
	}
}

func TestRunStreamsToWatchers(t *testing.T) {
	feed := web.NewFeed(nil)
	mux := http.NewServeMux()
	mux.Handle("/watch", feed.Handler())
	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/watch"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial watcher: %v", err)
	}
	defer conn.Close()

	runErr := make(chan error, 1)
	go func() {
		runErr <- Run(Options{
			Config: instantConfig(),
			Store:  &memStore{},
			Source: "step(); step();",
			Level:  "01-first-steps",
			Feed:   feed,
		})
	}()

	// The watcher connected before the run started, so the very first
	// envelope is the level announcement; a snapshot follows within ticks.
	sawLevel, sawSnapshot := false, false
	deadline := time.Now().Add(5 * time.Second)
	for !(sawLevel && sawSnapshot) {
		if time.Now().After(deadline) {
			t.Fatalf("Feed incomplete: level=%v snapshot=%v", sawLevel, sawSnapshot)
		}
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Read envelope: %v", err)
		}
		var env web.ClientEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("Decode envelope: %v", err)
		}
		switch env.Type {
		case web.TypeLevel:
			sawLevel = true
		case web.TypeSnapshot:
			sawSnapshot = true
		}
	}

	if err := <-runErr; err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
}
