package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"skillswap/internal/domain/entity"
)

// WebSocket message types
const (
	MessageTypePing              = "ping"
	MessageTypePong              = "pong"
	MessageTypeJoinConversation  = "join_conversation"
	MessageTypeLeaveConversation = "leave_conversation"
	MessageTypeSendMessage       = "send_message"
	MessageTypeMarkRead          = "mark_read"
	MessageTypeMessageList       = "message_list"
	MessageTypeConversationList  = "conversation_list"
	MessageTypeMessageSent       = "message_sent"
	MessageTypeError             = "error"
)

// WSMessage is the wire frame for both directions
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type JoinConversationData struct {
	PeerID string `json:"peer_id"`
}

type SendMessageData struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
	TempID     string `json:"temp_id,omitempty"`
}

type MarkReadData struct {
	PeerID string `json:"peer_id"`
}

type MessageListData struct {
	ConversationID string            `json:"conversation_id"`
	Messages       []*entity.Message `json:"messages"`
}

type MessageSentData struct {
	TempID  string          `json:"temp_id,omitempty"`
	Message *entity.Message `json:"message"`
}

// HandleClientMessage processes incoming WebSocket messages
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var wsMessage WSMessage

	if err := json.Unmarshal(messageBytes, &wsMessage); err != nil {
		log.Printf("WebSocket: Failed to unmarshal message from client %s: %v", client.UserID, err)
		m.sendErrorToClient(client, "Invalid message format")
		return
	}

	switch wsMessage.Type {
	case MessageTypePing:
		m.sendToClient(client, WSMessage{
			Type:      MessageTypePong,
			Data:      map[string]string{"status": "alive"},
			Timestamp: time.Now().Format(time.RFC3339),
		})

	case MessageTypeJoinConversation:
		m.handleJoinConversation(client, wsMessage.Data)

	case MessageTypeLeaveConversation:
		m.handleLeaveConversation(client)

	case MessageTypeSendMessage:
		m.handleSendMessage(client, wsMessage.Data)

	case MessageTypeMarkRead:
		m.handleMarkRead(client, wsMessage.Data)

	default:
		log.Printf("WebSocket: Unknown message type '%s' from client %s", wsMessage.Type, client.UserID)
		m.sendErrorToClient(client, "Unknown message type")
	}
}

// handleJoinConversation binds the client to one open conversation: tears
// down any previous subscription, reconciles read state, then streams the
// full ordered message list on every change.
func (m *Manager) handleJoinConversation(client *Client, data interface{}) {
	var joinData JoinConversationData
	if err := decodeData(data, &joinData); err != nil || joinData.PeerID == "" {
		m.sendErrorToClient(client, "Missing peer_id")
		return
	}

	client.mu.Lock()
	if client.sessionCancel != nil {
		client.sessionCancel()
		client.sessionCancel = nil
	}
	sessionCtx, cancel := context.WithCancel(client.ctx)
	client.sessionCancel = cancel
	client.activePeer = joinData.PeerID
	client.mu.Unlock()

	if err := m.chat.MarkConversationRead(sessionCtx, client.UserID, joinData.PeerID); err != nil {
		// Non-critical; the stream still opens.
		log.Printf("WebSocket: Read reconciliation failed for %s/%s: %v", client.UserID, joinData.PeerID, err)
	}

	conversationID := entity.ConversationID(client.UserID, joinData.PeerID)

	m.messages.Subscribe(sessionCtx, conversationID, func(messages []*entity.Message, err error) {
		if sessionCtx.Err() != nil {
			return
		}
		if err != nil {
			m.sendErrorToClient(client, "Message stream failed, please rejoin the conversation")
			return
		}
		m.sendToClient(client, WSMessage{
			Type: MessageTypeMessageList,
			Data: MessageListData{
				ConversationID: conversationID,
				Messages:       messages,
			},
			Timestamp: time.Now().Format(time.RFC3339),
		})
	})

	log.Printf("WebSocket: Client %s joined conversation %s", client.UserID, conversationID)
}

func (m *Manager) handleLeaveConversation(client *Client) {
	client.mu.Lock()
	if client.sessionCancel != nil {
		client.sessionCancel()
		client.sessionCancel = nil
	}
	client.activePeer = ""
	client.mu.Unlock()

	log.Printf("WebSocket: Client %s left conversation", client.UserID)
}

func (m *Manager) handleSendMessage(client *Client, data interface{}) {
	var sendData SendMessageData
	if err := decodeData(data, &sendData); err != nil || sendData.ReceiverID == "" {
		m.sendErrorToClient(client, "Missing receiver_id")
		return
	}

	message, err := m.chat.SendDirectMessage(client.ctx, client.UserID, sendData.ReceiverID, sendData.Content)
	if err != nil {
		// The client keeps its draft; the error frame is the retry
		// affordance.
		m.sendErrorToClient(client, err.Error())
		return
	}

	m.sendToClient(client, WSMessage{
		Type: MessageTypeMessageSent,
		Data: MessageSentData{
			TempID:  sendData.TempID,
			Message: message,
		},
		Timestamp: time.Now().Format(time.RFC3339),
	})

	m.notifyReceiver(client.UserID, sendData.ReceiverID, message)
}

// notifyReceiver pushes the new message straight to a connected peer, ahead
// of their snapshot listener. A peer who currently has this conversation
// open gets read reconciliation immediately instead of on their next join.
func (m *Manager) notifyReceiver(senderID, receiverID string, message *entity.Message) {
	m.mutex.RLock()
	peer, online := m.clients[receiverID]
	m.mutex.RUnlock()

	if !online {
		return
	}

	frame := WSMessage{
		Type:      MessageTypeMessageSent,
		Data:      MessageSentData{Message: message},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if frameBytes, err := json.Marshal(frame); err == nil {
		m.SendToUser(receiverID, frameBytes)
	}

	peer.mu.Lock()
	viewing := peer.activePeer == senderID
	peer.mu.Unlock()

	if viewing {
		if err := m.chat.MarkConversationRead(peer.ctx, receiverID, senderID); err != nil {
			log.Printf("WebSocket: Read reconciliation failed for %s/%s: %v", receiverID, senderID, err)
		}
	}
}

func (m *Manager) handleMarkRead(client *Client, data interface{}) {
	var readData MarkReadData
	if err := decodeData(data, &readData); err != nil || readData.PeerID == "" {
		m.sendErrorToClient(client, "Missing peer_id")
		return
	}

	if err := m.chat.MarkConversationRead(client.ctx, client.UserID, readData.PeerID); err != nil {
		log.Printf("WebSocket: Mark read failed for %s/%s: %v", client.UserID, readData.PeerID, err)
	}
}

// startIndexSubscription streams the user's conversation summaries for the
// sidebar; it lives as long as the connection.
func (m *Manager) startIndexSubscription(client *Client) {
	m.index.Subscribe(client.ctx, client.UserID, func(summaries []*entity.ConversationSummary, err error) {
		if client.ctx.Err() != nil {
			return
		}
		if err != nil {
			m.sendErrorToClient(client, "Conversation list stream failed, please reconnect")
			return
		}
		m.sendToClient(client, WSMessage{
			Type:      MessageTypeConversationList,
			Data:      summaries,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	})
}

func (m *Manager) sendToClient(client *Client, message WSMessage) {
	// Send stays open for the lifetime of the Client, so a callback racing
	// teardown at worst queues a frame nobody drains.
	if client.ctx.Err() != nil {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		log.Printf("WebSocket: Failed to marshal message for client %s: %v", client.UserID, err)
		return
	}

	select {
	case client.Send <- messageBytes:
	default:
		log.Printf("WebSocket: Client %s send channel full, dropping frame", client.UserID)
	}
}

func (m *Manager) sendErrorToClient(client *Client, errorMsg string) {
	m.sendToClient(client, WSMessage{
		Type: MessageTypeError,
		Data: map[string]string{
			"error": errorMsg,
		},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func decodeData(data interface{}, out interface{}) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(dataBytes, out)
}
