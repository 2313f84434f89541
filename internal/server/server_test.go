package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/engine"
	"notquiteparadise/internal/world"
	"notquiteparadise/pkg/api"
	"notquiteparadise/pkg/dungeon"
	"notquiteparadise/pkg/logger"

	"github.com/gorilla/websocket"
)

func TestMain(m *testing.M) {
	logger.InitForTests()
	os.Exit(m.Run())
}

func startServer(t *testing.T) (*httptest.Server, *engine.GameService) {
	t.Helper()
	cfg := engine.NewConfig()
	cfg.Seed = 3
	g := engine.NewGame(cfg, world.New(10, 10), nil)
	dungeon.CreatePlayer(g.Store, domain.Position{X: 1, Y: 1})
	dungeon.CreateMonster(g.Store, dungeon.Statue, domain.Position{X: 6, Y: 6})

	svc := engine.NewService(g, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = svc.Run(ctx) }()

	ts := httptest.NewServer(New(svc, "0").Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts, svc
}

func readUpdate(t *testing.T, conn *websocket.Conn) api.ServerResponse {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg api.ServerResponse
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read update: %v", err)
	}
	return msg
}

func TestWebSocket_Session(t *testing.T) {
	ts, svc := startServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(api.ClientCommand{Action: api.ActionInit}); err != nil {
		t.Fatalf("handshake: %v", err)
	}

	first := readUpdate(t, conn)
	if first.Type != api.ResponseUpdate || first.MyEntityID != svc.PlayerID().String() {
		t.Fatalf("Unexpected first update: %+v", first)
	}
	if first.ActiveEntityID != first.MyEntityID {
		t.Errorf("Expected the player to hold the turn, got %q", first.ActiveEntityID)
	}

	move, _ := json.Marshal(api.DirectionPayload{Dx: 1, Dy: 1})
	if err := conn.WriteJSON(api.ClientCommand{Action: api.ActionMove, Payload: move}); err != nil {
		t.Fatalf("send move: %v", err)
	}

	next := readUpdate(t, conn)
	if next.Tick <= first.Tick {
		t.Errorf("Expected time to advance, got %d -> %d", first.Tick, next.Tick)
	}
	for _, e := range next.Entities {
		if e.ID == next.MyEntityID && (e.X != 2 || e.Y != 2) {
			t.Errorf("Expected player at (2,2), got (%d,%d)", e.X, e.Y)
		}
	}
}

func TestHTTP_Endpoints(t *testing.T) {
	ts, _ := startServer(t)

	get := func(t *testing.T, path string) (int, []byte) {
		t.Helper()
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, body
	}

	t.Run("Health", func(t *testing.T) {
		code, body := get(t, "/health")
		if code != http.StatusOK || string(body) != "ok" {
			t.Errorf("Unexpected health response %d %q", code, body)
		}
	})

	t.Run("Debug state", func(t *testing.T) {
		code, body := get(t, "/debug/state")
		if code != http.StatusOK {
			t.Fatalf("Unexpected status %d: %s", code, body)
		}
		var state struct {
			State       string `json:"state"`
			EntityCount int    `json:"entity_count"`
		}
		if err := json.Unmarshal(body, &state); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if state.EntityCount != 2 {
			t.Errorf("Expected 2 entities, got %d", state.EntityCount)
		}
	})

	t.Run("Debug queue", func(t *testing.T) {
		code, body := get(t, "/debug/queue")
		var dump []map[string]any
		if code != http.StatusOK || json.Unmarshal(body, &dump) != nil || len(dump) != 2 {
			t.Errorf("Unexpected queue dump %d %s", code, body)
		}
	})

	t.Run("Snapshots disabled", func(t *testing.T) {
		if code, _ := get(t, "/debug/snapshots"); code != http.StatusNotFound {
			t.Errorf("Expected 404 without a snapshot store, got %d", code)
		}
	})
}
