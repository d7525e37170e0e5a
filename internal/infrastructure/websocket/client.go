package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"helperhub/internal/domain/entity"
	"helperhub/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

// Client is one WebSocket connection. ReadPump and WritePump are its only reader and writer.
type Client struct {
	Account entity.Account
	conn    *websocket.Conn
	send    chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(conn *websocket.Conn, account entity.Account) *Client {
	return &Client{
		Account: account,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
	}
}

// enqueue never blocks: a full buffer or a closed client drops the frame.
func (c *Client) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		logger.Warn("WebSocket: send buffer full for %s, dropping frame", c.Account.ID)
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump reads frames until the connection fails, then unregisters the client.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Error("WebSocket: read error for %s: %v", c.Account.ID, err)
			}
			return
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump drains the send buffer and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Error("WebSocket: write error for %s: %v", c.Account.ID, err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
