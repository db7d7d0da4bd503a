package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/pollpulse/pollpulse/internal/domain"
	"github.com/pollpulse/pollpulse/internal/metrics"
)

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	pollID int64
	conn   *websocket.Conn
	errCh  chan error
}

func (cmdRegister) hubCmd() {}

type cmdUnregister struct {
	pollID int64
	conn   *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdBroadcast struct {
	pollID int64
	data   []byte
}

func (cmdBroadcast) hubCmd() {}

type cmdClientCount struct {
	pollID  int64
	replyCh chan int
}

func (cmdClientCount) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// --- Hub ---

// Hub routes tally snapshots to every client subscribed to a poll. It
// implements domain.UpdatePublisher for the voting engine.
type Hub struct {
	cmdCh        chan hubCmd
	clients      map[int64]map[*websocket.Conn]*clientWriter
	maxPerPoll   int
	totalClients int

	stopOnce sync.Once
	doneCh   chan struct{}
}

// NewHub creates the hub and starts its routing goroutine. maxPerPoll caps
// subscribers per poll; further registrations are rejected.
func NewHub(maxPerPoll int) *Hub {
	hub := &Hub{
		cmdCh:      make(chan hubCmd, 256),
		clients:    make(map[int64]map[*websocket.Conn]*clientWriter),
		maxPerPoll: maxPerPoll,
		doneCh:     make(chan struct{}),
	}
	go hub.run()
	return hub
}

// Register subscribes conn to a poll's updates.
func (h *Hub) Register(pollID int64, conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- cmdRegister{pollID: pollID, conn: conn, errCh: errCh}
	return <-errCh
}

// Unregister drops conn from a poll. Unknown connections are ignored.
func (h *Hub) Unregister(pollID int64, conn *websocket.Conn) {
	h.cmdCh <- cmdUnregister{pollID: pollID, conn: conn}
}

// PublishResults implements domain.UpdatePublisher.
func (h *Hub) PublishResults(ctx context.Context, update domain.ResultsUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to marshal results update", "poll_id", update.PollID, "error", err)
		return
	}
	h.cmdCh <- cmdBroadcast{pollID: update.PollID, data: data}
}

// ClientCount returns the number of clients subscribed to a poll.
func (h *Hub) ClientCount(pollID int64) int {
	replyCh := make(chan int, 1)
	h.cmdCh <- cmdClientCount{pollID: pollID, replyCh: replyCh}
	return <-replyCh
}

// Stop shuts the hub down and blocks until every connection has been closed.
// Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { h.cmdCh <- cmdStop{} })
	<-h.doneCh
}

func (h *Hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			h.handleRegister(c)
		case cmdUnregister:
			h.handleUnregister(c.pollID, c.conn)
		case cmdBroadcast:
			h.handleBroadcast(c)
		case cmdClientCount:
			c.replyCh <- len(h.clients[c.pollID])
		case cmdStop:
			h.handleStop()
			close(h.doneCh)
			return
		}
	}
}

func (h *Hub) handleRegister(c cmdRegister) {
	clients, exists := h.clients[c.pollID]
	if !exists {
		clients = make(map[*websocket.Conn]*clientWriter)
		h.clients[c.pollID] = clients
	}

	if len(clients) >= h.maxPerPoll {
		slog.Warn("Rejecting subscriber: poll at client cap", "poll_id", c.pollID, "cap", h.maxPerPoll)
		c.conn.Close()
		c.errCh <- fmt.Errorf("max clients per poll (%d) reached", h.maxPerPoll)
		return
	}

	clients[c.conn] = newClientWriter(c.conn)
	h.totalClients++
	metrics.WSConnectedClients.Set(float64(h.totalClients))
	c.errCh <- nil
}

func (h *Hub) handleUnregister(pollID int64, conn *websocket.Conn) {
	clients, exists := h.clients[pollID]
	if !exists {
		return
	}

	cw, exists := clients[conn]
	if !exists {
		return
	}

	cw.stop()
	delete(clients, conn)
	h.totalClients--
	metrics.WSConnectedClients.Set(float64(h.totalClients))

	if len(clients) == 0 {
		delete(h.clients, pollID)
	}
}

func (h *Hub) handleBroadcast(c cmdBroadcast) {
	clients, exists := h.clients[c.pollID]
	if !exists {
		return
	}

	var slow []*websocket.Conn
	for conn, cw := range clients {
		select {
		case cw.sendCh <- c.data:
		default:
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		slog.Warn("Disconnecting slow subscriber", "poll_id", c.pollID)
		h.handleUnregister(c.pollID, conn)
	}
}

func (h *Hub) handleStop() {
	for pollID, clients := range h.clients {
		for conn, cw := range clients {
			cw.stop()
			delete(clients, conn)
		}
		delete(h.clients, pollID)
	}
	h.totalClients = 0
	metrics.WSConnectedClients.Set(0)
}
