package devtools

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/reactivity/pkg/instrument"
	"github.com/vango-dev/reactivity/pkg/reactivity"
)

type bridgedTarget struct {
	Value int
}

func dialEvents(t *testing.T, s *Server) (*websocket.Conn, func()) {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		ts.Close()
		t.Fatalf("Dial(%q) failed: %v", url, err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.Hub().ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn, func() {
		conn.Close()
		ts.Close()
	}
}

func TestHubBroadcast(t *testing.T) {
	s := New(Config{})
	conn, cleanup := dialEvents(t, s)
	defer cleanup()

	s.Hub().Broadcast(Message{Signal: "test", Fields: map[string]any{"n": 1}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if msg.Signal != "test" || msg.Fields["n"] != float64(1) {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	s := New(Config{})
	conn, cleanup := dialEvents(t, s)
	defer cleanup()

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for s.Hub().ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("closed client was not dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBridgeForwardsTriggers(t *testing.T) {
	s := New(Config{})
	Bridge(s.Hub())
	conn, cleanup := dialEvents(t, s)
	defer cleanup()

	reactivity.SetObserver(instrument.NewEvents())
	defer reactivity.SetObserver(nil)

	p := reactivity.MustReactive(&bridgedTarget{})
	e := reactivity.CreateEffect(func() { _ = p.Get("Value") })
	defer e.Stop()
	if err := p.Set("Value", 7); err != nil {
		t.Fatalf("Set: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		if msg.Signal != "reactivity.trigger" || msg.Fields["target"] != "devtools.bridgedTarget" {
			continue
		}
		if msg.Fields["key"] != "Value" || msg.Fields["subscribers"] != float64(1) {
			t.Errorf("unexpected trigger fields %+v", msg.Fields)
		}
		return
	}
}
