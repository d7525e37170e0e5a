package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"helperhub/internal/domain/entity"
	"helperhub/pkg/logger"
)

// ChatService persists chat messages posted over the socket and fans them out.
type ChatService interface {
	PostBookingMessage(ctx context.Context, sender entity.Account, bookingID, text string) (*entity.Message, error)
	PostSupportMessage(ctx context.Context, sender entity.Account, userID, text string) (*entity.Message, error)
}

// Manager owns every live connection together with the presence directory and room table.
type Manager struct {
	presence *Presence
	rooms    *Rooms
	chat     ChatService

	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	now        func() time.Time
}

func NewManager(presence *Presence, rooms *Rooms) *Manager {
	return &Manager{
		presence:   presence,
		rooms:      rooms,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		now:        time.Now,
	}
}

// SetChatService must be called before Run; the chat usecase itself depends on the manager.
func (m *Manager) SetChatService(chat ChatService) {
	m.chat = chat
}

func (m *Manager) Presence() *Presence { return m.presence }

func (m *Manager) Rooms() *Rooms { return m.rooms }

// Run serializes connects and disconnects until ctx is done, then closes every connection.
func (m *Manager) Run(ctx context.Context) error {
	defer close(m.done)

	for {
		select {
		case client := <-m.register:
			m.clients[client] = struct{}{}
			m.presence.Register(client.Account.ID, client)
			logger.Info("Client registered: %s", client.Account.ID)

		case client := <-m.unregister:
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				m.presence.Unregister(client)
				m.rooms.LeaveAll(client)
				client.close()
				logger.Info("Client unregistered: %s", client.Account.ID)
			}

		case <-ctx.Done():
			for client := range m.clients {
				m.presence.Unregister(client)
				m.rooms.LeaveAll(client)
				client.close()
			}
			m.clients = make(map[*Client]struct{})
			return nil
		}
	}
}

// Start runs the manager loop in its own goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() { _ = m.Run(ctx) }()
}

func (m *Manager) Register(c *Client) {
	select {
	case m.register <- c:
	case <-m.done:
		c.close()
	}
}

func (m *Manager) Unregister(c *Client) {
	select {
	case m.unregister <- c:
	case <-m.done:
	}
}

// Serve registers an upgraded connection and starts its pumps.
func (m *Manager) Serve(conn *websocket.Conn, account entity.Account) *Client {
	client := NewClient(conn, account)
	m.Register(client)

	go client.WritePump()
	go client.ReadPump(m)
	return client
}

func (m *Manager) encode(event string, payload any) ([]byte, error) {
	return json.Marshal(Frame{
		Type:      event,
		Data:      payload,
		Timestamp: m.now().Format(time.RFC3339),
	})
}

// Notify delivers event to accountID's connection, if any. Delivery is at most once.
func (m *Manager) Notify(accountID, event string, payload any) bool {
	client, ok := m.presence.Lookup(accountID)
	if !ok {
		return false
	}

	frame, err := m.encode(event, payload)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s: %v", event, err)
		return false
	}
	return client.enqueue(frame)
}

// Broadcast delivers event to every connection joined to roomKey and returns how many accepted it.
func (m *Manager) Broadcast(roomKey, event string, payload any) int {
	members := m.rooms.Members(roomKey)
	if len(members) == 0 {
		return 0
	}

	frame, err := m.encode(event, payload)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s: %v", event, err)
		return 0
	}

	delivered := 0
	for _, client := range members {
		if client.enqueue(frame) {
			delivered++
		}
	}
	return delivered
}

func (m *Manager) sendToClient(c *Client, event string, payload any) {
	frame, err := m.encode(event, payload)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s: %v", event, err)
		return
	}
	c.enqueue(frame)
}

func (m *Manager) sendErrorToClient(c *Client, message string) {
	m.sendToClient(c, EventError, map[string]string{"message": message})
}
