package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/pollpulse/pollpulse/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handlePollFeed upgrades the connection and streams tally snapshots for one
// poll. Browsers cannot set headers on WebSocket dials, so the session token
// comes in as a query parameter instead.
func (s *Server) handlePollFeed(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.QueryParam("token")
	if token == "" {
		return domain.NewError(domain.KindInvalidSession, "missing token query parameter")
	}

	pollID, err := pollIDParam(c)
	if err != nil {
		return err
	}

	// Authenticate and fetch the current tally before upgrading, so auth and
	// not-found failures still produce regular JSON errors.
	results, err := s.app.PollResults(ctx, token, pollID)
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.ErrorContext(ctx, "WebSocket upgrade failed", "poll_id", pollID, "error", err)
		return nil
	}

	// The initial snapshot goes out before the hub attaches its writer
	// goroutine; the connection tolerates only one concurrent writer, so
	// after Register all writes must flow through the hub.
	var total int64
	for _, count := range results {
		total += count
	}
	snapshot := domain.ResultsUpdate{PollID: pollID, Results: results, Total: total}
	if err := conn.WriteJSON(snapshot); err != nil {
		conn.Close()
		return nil
	}

	if err := s.hub.Register(pollID, conn); err != nil {
		slog.WarnContext(ctx, "WebSocket registration rejected", "poll_id", pollID, "error", err)
		return nil
	}

	slog.InfoContext(ctx, "Subscriber joined poll feed", "poll_id", pollID)

	// Block draining the connection; updates flow out through the hub. Any
	// read error (including a clean close) ends the subscription.
	go func() {
		defer s.hub.Unregister(pollID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}
