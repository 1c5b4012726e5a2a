package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cellarly/cellarctl/internal/logging"
)

// StreamEvent is one event from the server's cellar-event feed. The server
// broadcasts these when cellar state changes, so clients can refresh without
// polling. Known types include "share.completed", "share.cancelled" and
// "inventory.changed".
type StreamEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Stream is an open websocket subscription to the cellar-event feed.
type Stream struct {
	conn *websocket.Conn
	log  *zap.Logger
}

// OpenStream connects to the server's event feed. The caller owns the
// returned Stream and must Close it.
func (c *Client) OpenStream(ctx context.Context) (*Stream, error) {
	wsURL, err := eventURL(c.BaseURL)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if c.Token != "" {
		header.Set("Authorization", "Bearer "+c.Token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
				return nil, newAuthError("authentication failed (check your token)")
			}
			return nil, newHTTPError(resp.StatusCode, resp.Status, nil)
		}
		return nil, newNetworkError("could not connect to the event stream", err)
	}

	c.log.Info("event stream connected", zap.String("url", wsURL))
	return &Stream{conn: conn, log: c.log}, nil
}

// Next blocks until the next event arrives. A clean close from the server
// returns a network error wrapping the close frame.
func (s *Stream) Next() (*StreamEvent, error) {
	var event StreamEvent
	if err := s.conn.ReadJSON(&event); err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, newNetworkError("event stream closed by server", err)
		}
		return nil, newNetworkError("failed to read event", err)
	}
	logging.Debug("stream event received", zap.String("type", event.Type))
	return &event, nil
}

// Close sends a close frame and tears down the connection.
func (s *Stream) Close() error {
	deadline := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteMessage(websocket.CloseMessage, deadline)
	return s.conn.Close()
}

// eventURL derives the websocket endpoint from the HTTP base URL.
func eventURL(baseURL string) (string, error) {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://") + "/api/events", nil
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://") + "/api/events", nil
	default:
		return "", fmt.Errorf("unsupported server URL scheme: %s", baseURL)
	}
}
