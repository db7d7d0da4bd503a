package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollpulse/pollpulse/internal/domain"
)

// testHub sets up a Hub behind a test HTTP server that upgrades connections
// and subscribes them to the poll named in the query string.
func testHub(t *testing.T, maxPerPoll int) (*Hub, func(pollID int64) *ws.Conn) {
	t.Helper()

	hub := NewHub(maxPerPoll)
	t.Cleanup(hub.Stop)

	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		pollID, err := strconv.ParseInt(r.URL.Query().Get("poll"), 10, 64)
		require.NoError(t, err)
		_ = hub.Register(pollID, conn)

		go func() {
			defer hub.Unregister(pollID, conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}))
	t.Cleanup(server.Close)

	dial := func(pollID int64) *ws.Conn {
		t.Helper()
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "?poll=" + strconv.FormatInt(pollID, 10)
		conn, _, err := ws.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		return conn
	}

	return hub, dial
}

func waitForClientCount(hub *Hub, pollID int64, expected int) bool {
	for n := 0; n < 100; n++ {
		if hub.ClientCount(pollID) == expected {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func TestHub_PublishReachesSubscribers(t *testing.T) {
	hub, dial := testHub(t, 10)

	conn := dial(7)
	require.True(t, waitForClientCount(hub, 7, 1))

	hub.PublishResults(context.Background(), domain.ResultsUpdate{
		PollID:  7,
		Results: map[int64]int64{1: 2, 2: 1},
		Total:   3,
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var update domain.ResultsUpdate
	require.NoError(t, json.Unmarshal(msg, &update))
	assert.Equal(t, int64(7), update.PollID)
	assert.Equal(t, int64(3), update.Total)
	assert.Equal(t, map[int64]int64{1: 2, 2: 1}, update.Results)
}

func TestHub_UpdatesAreScopedToPoll(t *testing.T) {
	hub, dial := testHub(t, 10)

	subscribed := dial(1)
	other := dial(2)
	require.True(t, waitForClientCount(hub, 1, 1))
	require.True(t, waitForClientCount(hub, 2, 1))

	hub.PublishResults(context.Background(), domain.ResultsUpdate{PollID: 1, Results: map[int64]int64{1: 1}, Total: 1})

	subscribed.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := subscribed.ReadMessage()
	require.NoError(t, err)

	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err) // nothing arrives for poll 2
}

func TestHub_EnforcesClientCap(t *testing.T) {
	hub, dial := testHub(t, 1)

	dial(5)
	require.True(t, waitForClientCount(hub, 5, 1))

	// Second subscriber is rejected and its connection closed.
	second := dial(5)
	second.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := second.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 1, hub.ClientCount(5))
}

func TestHub_StopWaitsForConnectionClose(t *testing.T) {
	hub, dial := testHub(t, 10)

	conn := dial(4)
	require.True(t, waitForClientCount(hub, 4, 1))

	hub.Stop()

	// Stop returns only after the subscriber connection has been closed, so
	// the next read fails immediately instead of hanging on a live socket.
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	// Repeated Stop is a no-op, not a deadlock.
	hub.Stop()
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub, dial := testHub(t, 10)

	conn := dial(3)
	require.True(t, waitForClientCount(hub, 3, 1))

	conn.Close()
	assert.True(t, waitForClientCount(hub, 3, 0))
}
