package net

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"StrokeBoard/internal/state"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrRejected is returned by Submit when the host turns a drawing down.
var ErrRejected = errors.New("submission rejected")

// Client is a board's connection to the host.
type Client struct {
	conn    *websocket.Conn
	ownerID string
	mu      sync.Mutex
}

// Dial connects to addr, which is host:port or a ws:// URL.
func Dial(ctx context.Context, addr string) (*Client, error) {
	url := addr
	if !strings.HasPrefix(url, "ws://") && !strings.HasPrefix(url, "wss://") {
		url = "ws://" + strings.TrimSuffix(addr, "/") + Path
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial host %s: %w", url, err)
	}
	c := &Client{conn: conn, ownerID: conn.LocalAddr().String()}
	log.Printf("[CLIENT] Connected to %s as %s", url, c.ownerID)
	return c, nil
}

func (c *Client) OwnerID() string { return c.ownerID }

// Notify tells the host about a commit or an undo. No reply is expected.
func (c *Client) Notify(kind, color string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(Message{Type: kind, OwnerID: c.ownerID, Color: color}); err != nil {
		return fmt.Errorf("notify %s: %w", kind, err)
	}
	return nil
}

// Submit sends an exported drawing and waits for the host's verdict.
func (c *Client) Submit(ctx context.Context, lines []state.Segment) (Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetReadDeadline(deadline)
		defer c.conn.SetReadDeadline(time.Time{})
	}

	req := Message{Type: TypeExport, ID: uuid.NewString(), OwnerID: c.ownerID, Lines: lines}
	if err := c.conn.WriteJSON(req); err != nil {
		return Message{}, fmt.Errorf("send submission: %w", err)
	}

	var reply Message
	if err := c.conn.ReadJSON(&reply); err != nil {
		return Message{}, fmt.Errorf("read verdict: %w", err)
	}
	if reply.Type == TypeRejected {
		return reply, fmt.Errorf("%w: %s", ErrRejected, reply.Reason)
	}
	return reply, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	c.conn.WriteMessage(websocket.CloseMessage, msg)
	return c.conn.Close()
}
