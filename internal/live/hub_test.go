package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, origins []string) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(origins)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt map[string]any
	require.NoError(t, json.Unmarshal(data, &evt))
	return evt
}

func TestHubBroadcast(t *testing.T) {
	hub, server := startHub(t, nil)
	conn := dial(t, server, "")

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(Event{Type: TeamRegistered, Payload: map[string]string{"teamName": "Falcons"}})

	evt := readEvent(t, conn)
	assert.Equal(t, TeamRegistered, evt["type"])
	assert.Equal(t, map[string]any{"teamName": "Falcons"}, evt["payload"])
}

func TestHubGameRooms(t *testing.T) {
	hub, server := startHub(t, nil)
	codConn := dial(t, server, "?game=cod")
	allConn := dial(t, server, "")

	require.Eventually(t, func() bool { return hub.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(Event{Type: MatchUpdated, Game: "fifa", Payload: "fifa match"})
	hub.Publish(Event{Type: MatchUpdated, Game: "cod", Payload: "cod match"})

	// the cod subscriber never sees the fifa event
	evt := readEvent(t, codConn)
	assert.Equal(t, "cod match", evt["payload"])

	assert.Equal(t, "fifa match", readEvent(t, allConn)["payload"])
	assert.Equal(t, "cod match", readEvent(t, allConn)["payload"])
}

func TestHubRejectsUnknownOrigin(t *testing.T) {
	_, server := startHub(t, []string{"https://allowed.example"})

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub, server := startHub(t, nil)
	conn := dial(t, server, "")
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}
