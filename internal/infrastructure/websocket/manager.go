package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
)

// ChatService is the slice of the chat session controller the socket layer
// needs: sending on behalf of a connected user and read reconciliation when
// a conversation is opened.
type ChatService interface {
	SendDirectMessage(ctx context.Context, senderID, receiverID, content string) (*entity.Message, error)
	MarkConversationRead(ctx context.Context, userID, peerID string) error
}

// Client represents a WebSocket connection client
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	// root context for every subscription tied to this connection; cancelled
	// on unregister so no callback fires after teardown
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	activePeer    string
	sessionCancel context.CancelFunc
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Manager manages all active WebSocket connections
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex

	chat     ChatService
	messages repository.MessageRepository
	index    repository.ConversationIndexRepository
}

func NewManager(chat ChatService, messages repository.MessageRepository, index repository.ConversationIndexRepository) *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		chat:       chat,
		messages:   messages,
		index:      index,
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				log.Printf("Client registered: %s", client.UserID)

				m.startIndexSubscription(client)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.UserID]; ok {
					delete(m.clients, client.UserID)
					// Send is never closed: subscription callbacks on other
					// goroutines may still be sending. The cancelled context
					// is the only teardown signal; WritePump exits on it.
					client.cancel()
				}
				m.mutex.Unlock()
				log.Printf("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// SendToUser sends a message to a specific user if connected
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if ok {
		select {
		case client.Send <- message:
		default:
			log.Printf("WebSocket: Client %s send channel full, dropping message", userID)
		}
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error for %s: %v", c.UserID, err)
			}
			break
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		select {
		case <-c.ctx.Done():
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.Send:
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error for %s: %v", c.UserID, err)
				return
			}
		}
	}
}
