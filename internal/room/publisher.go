package room

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/coder/websocket"
)

// Publisher delivers structured events to all observers of one session.
type Publisher interface {
	// Publish sends one event as a reliable data message. The payload must be
	// JSON-marshalable.
	Publish(ctx context.Context, event interface{}) error
	// Close releases the underlying connection.
	Close() error
}

// WSPublisher publishes events over a WebSocket connection to the room
// gateway. Writes are serialized: the websocket allows one concurrent writer.
type WSPublisher struct {
	conn   *websocket.Conn
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Dial connects to the room gateway for the given session. The agent joins as
// a publishing participant; observers receive every data message it sends.
func Dial(ctx context.Context, gatewayURL, sessionID string, logger *slog.Logger) (*WSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	u := fmt.Sprintf("%s/rooms/%s?identity=%s",
		gatewayURL, url.PathEscape(sessionID), url.QueryEscape("interviewer-agent"))

	conn, _, err := websocket.Dial(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial room gateway: %w", err)
	}

	p := &WSPublisher{conn: conn, logger: logger}

	// The gateway may send acks or participant notifications; drain them so
	// control frames keep being processed.
	go p.drain()

	logger.Info("[ROOM] Connected to room gateway", "session_id", sessionID)
	return p, nil
}

// Publish sends one event to the session's observers.
func (p *WSPublisher) Publish(ctx context.Context, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal room event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("room publisher closed")
	}
	if err := p.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("publish room event: %w", err)
	}
	return nil
}

// Close closes the gateway connection.
func (p *WSPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	if err := p.conn.Close(websocket.StatusNormalClosure, "session ended"); err != nil {
		return fmt.Errorf("close room connection: %w", err)
	}
	return nil
}

func (p *WSPublisher) drain() {
	ctx := context.Background()
	for {
		if _, _, err := p.conn.Read(ctx); err != nil {
			if websocket.CloseStatus(err) == -1 {
				p.logger.Debug("[ROOM] Gateway read ended", "error", err)
			}
			return
		}
	}
}
