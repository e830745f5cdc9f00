package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/ashureev/interview-agent/internal/domain"
	"github.com/coder/websocket"
)

// wsEnvelope is the wire format spoken by the pipeline service. Inbound
// messages carry finalized dialogue turns; outbound messages carry reply
// instructions and context injections.
type wsEnvelope struct {
	Type         string `json:"type"`
	Role         string `json:"role,omitempty"`
	Text         string `json:"text,omitempty"`
	Final        bool   `json:"final,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

const (
	msgTypeTurn    = "turn"
	msgTypeReply   = "reply"
	msgTypeContext = "context"
)

// WSClient implements Pipeline over a WebSocket connection to the dialogue
// pipeline service. It maintains a local mirror of the dialogue context:
// every finalized turn the service emits is appended, and every successfully
// sent context injection is appended as a CONTEXT turn. The service does not
// echo injected context back.
type WSClient struct {
	serviceURL string
	sessionID  string
	logger     *slog.Logger

	conn    *websocket.Conn
	writeMu sync.Mutex

	mu    sync.RWMutex
	turns []domain.Turn

	readDone chan struct{}
}

// NewWSClient creates a pipeline client for one session. Call Start to
// connect.
func NewWSClient(serviceURL, sessionID string, logger *slog.Logger) *WSClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSClient{
		serviceURL: serviceURL,
		sessionID:  sessionID,
		logger:     logger,
		readDone:   make(chan struct{}),
	}
}

// Start dials the pipeline service and begins mirroring dialogue turns.
func (c *WSClient) Start(ctx context.Context) error {
	u := fmt.Sprintf("%s/sessions/%s", c.serviceURL, url.PathEscape(c.sessionID))
	conn, _, err := websocket.Dial(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("dial pipeline service: %w", err)
	}
	c.conn = conn

	go c.readLoop()

	c.logger.Info("[PIPELINE] Connected", "session_id", c.sessionID)
	return nil
}

// TurnCount returns the current length of the mirrored dialogue context.
func (c *WSClient) TurnCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// Turn returns the mirrored turn at position i.
func (c *WSClient) Turn(i int) (domain.Turn, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.turns) {
		return domain.Turn{}, false
	}
	return c.turns[i], true
}

// AppendContext sends a context injection and mirrors it locally on success.
func (c *WSClient) AppendContext(ctx context.Context, text string) error {
	if err := c.send(ctx, wsEnvelope{Type: msgTypeContext, Text: text}); err != nil {
		return fmt.Errorf("append context: %w", err)
	}
	c.mu.Lock()
	c.turns = append(c.turns, domain.Turn{Role: domain.RoleContext, Text: text, Final: true})
	c.mu.Unlock()
	return nil
}

// Reply asks the pipeline to generate and speak a reply. The resulting agent
// turn arrives later through the turn stream.
func (c *WSClient) Reply(ctx context.Context, instructions string) error {
	if err := c.send(ctx, wsEnvelope{Type: msgTypeReply, Instructions: instructions}); err != nil {
		return fmt.Errorf("request reply: %w", err)
	}
	return nil
}

// Close closes the pipeline connection and waits for the read loop to end.
func (c *WSClient) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close(websocket.StatusNormalClosure, "session ended")
	<-c.readDone
	if err != nil {
		return fmt.Errorf("close pipeline connection: %w", err)
	}
	return nil
}

func (c *WSClient) send(ctx context.Context, env wsEnvelope) error {
	if c.conn == nil {
		return fmt.Errorf("pipeline not started")
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

func (c *WSClient) readLoop() {
	defer close(c.readDone)
	ctx := context.Background()
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.logger.Debug("[PIPELINE] Connection closed", "session_id", c.sessionID)
			} else {
				c.logger.Warn("[PIPELINE] Read error", "session_id", c.sessionID, "error", err)
			}
			return
		}

		var env wsEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn("[PIPELINE] Malformed message", "session_id", c.sessionID, "error", err)
			continue
		}
		if env.Type != msgTypeTurn {
			continue
		}

		role := domain.Role(env.Role)
		if role != domain.RoleAgent && role != domain.RoleCandidate {
			c.logger.Warn("[PIPELINE] Turn with unknown role dropped", "session_id", c.sessionID, "role", env.Role)
			continue
		}

		c.mu.Lock()
		c.turns = append(c.turns, domain.Turn{Role: role, Text: env.Text, Final: env.Final})
		c.mu.Unlock()
	}
}
