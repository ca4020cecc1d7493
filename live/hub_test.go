package live

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, r.URL.Query().Get("room"))
		if !hub.Join(client) {
			conn.Close()
			return
		}
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, room string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?room=" + room
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, room string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize(room) != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients in %s, got %d", n, room, hub.RoomSize(room))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBroadcastReachesOnlyTheRoom(t *testing.T) {
	hub, srv := startHub(t)
	game := RoomForGame(uuid.New())
	other := RoomForGame(uuid.New())

	inRoom := dial(t, srv, game)
	outside := dial(t, srv, other)
	waitForClients(t, hub, game, 1)
	waitForClients(t, hub, other, 1)

	hub.BroadcastToRoom(game, Message{Type: MessageTimerTick, Payload: "06:59", RoomID: game})

	inRoom.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := inRoom.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != MessageTimerTick || msg.Payload != "06:59" || msg.RoomID != game {
		t.Fatalf("unexpected message %+v", msg)
	}

	outside.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := outside.ReadMessage(); err == nil {
		t.Fatalf("expected no message outside the room")
	}
}

func TestClosedClientLeavesRoom(t *testing.T) {
	hub, srv := startHub(t)
	room := RoomForGame(uuid.New())

	conn := dial(t, srv, room)
	waitForClients(t, hub, room, 1)

	conn.Close()
	waitForClients(t, hub, room, 0)
}
