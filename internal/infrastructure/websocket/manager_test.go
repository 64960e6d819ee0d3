package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/domain/entity"
)

type stubChat struct {
	mu        sync.Mutex
	markReads [][2]string
}

func (s *stubChat) SendDirectMessage(ctx context.Context, senderID, receiverID, content string) (*entity.Message, error) {
	return &entity.Message{
		ID:         "m1",
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  time.Now(),
	}, nil
}

func (s *stubChat) MarkConversationRead(ctx context.Context, userID, peerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markReads = append(s.markReads, [2]string{userID, peerID})
	return nil
}

func (s *stubChat) markReadCalls() [][2]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][2]string(nil), s.markReads...)
}

type stubMessages struct{}

func (s *stubMessages) Append(ctx context.Context, conversationID string, message *entity.Message) error {
	return nil
}

func (s *stubMessages) ListByConversation(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	return nil, nil
}

func (s *stubMessages) MarkRead(ctx context.Context, conversationID, readerID string) (int, error) {
	return 0, nil
}

func (s *stubMessages) Subscribe(ctx context.Context, conversationID string, fn func([]*entity.Message, error)) {
}

type stubIndex struct{}

func (s *stubIndex) UpsertSummaryPair(ctx context.Context, senderID, receiverID, content string) error {
	return nil
}

func (s *stubIndex) MarkPeerRead(ctx context.Context, userID, peerID string) error {
	return nil
}

func (s *stubIndex) GetSummary(ctx context.Context, userID, peerID string) (*entity.ConversationSummary, error) {
	return nil, nil
}

func (s *stubIndex) ListByUser(ctx context.Context, userID string) ([]*entity.ConversationSummary, error) {
	return nil, nil
}

func (s *stubIndex) Subscribe(ctx context.Context, userID string, fn func([]*entity.ConversationSummary, error)) {
}

func newTestManager(t *testing.T, chat ChatService) *Manager {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := NewManager(chat, &stubMessages{}, &stubIndex{})
	m.Start(ctx)
	return m
}

func registerAndWait(t *testing.T, m *Manager, client *Client) {
	t.Helper()

	m.Register <- client
	require.Eventually(t, func() bool {
		m.mutex.RLock()
		defer m.mutex.RUnlock()
		_, ok := m.clients[client.UserID]
		return ok
	}, time.Second, 5*time.Millisecond)
}

func unregisterAndWait(t *testing.T, m *Manager, client *Client) {
	t.Helper()

	m.Unregister <- client
	require.Eventually(t, func() bool {
		m.mutex.RLock()
		defer m.mutex.RUnlock()
		_, ok := m.clients[client.UserID]
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func receiveFrame(t *testing.T, client *Client) WSMessage {
	t.Helper()

	select {
	case frameBytes := <-client.Send:
		var frame WSMessage
		require.NoError(t, json.Unmarshal(frameBytes, &frame))
		return frame
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return WSMessage{}
	}
}

func TestLateSubscriptionCallbackDoesNotPanic(t *testing.T) {
	m := newTestManager(t, &stubChat{})

	client := NewClient("alice", nil)
	registerAndWait(t, m, client)

	// A snapshot callback observes a live connection context, then teardown
	// runs before the callback gets to deliver its frame.
	require.NoError(t, client.ctx.Err())
	unregisterAndWait(t, m, client)

	assert.NotPanics(t, func() {
		m.sendToClient(client, WSMessage{Type: MessageTypeMessageList})
	})
}

func TestTeardownRacingCallbacksDoesNotPanic(t *testing.T) {
	m := newTestManager(t, &stubChat{})

	client := NewClient("alice", nil)
	registerAndWait(t, m, client)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			m.sendToClient(client, WSMessage{Type: MessageTypeConversationList})
		}
	}()

	unregisterAndWait(t, m, client)
	wg.Wait()
}

func TestSendDeliversToConnectedPeer(t *testing.T) {
	chat := &stubChat{}
	m := newTestManager(t, chat)

	alice := NewClient("alice", nil)
	bob := NewClient("bob", nil)
	registerAndWait(t, m, alice)
	registerAndWait(t, m, bob)

	m.handleSendMessage(alice, map[string]interface{}{
		"receiver_id": "bob",
		"content":     "hi bob",
	})

	ack := receiveFrame(t, alice)
	assert.Equal(t, MessageTypeMessageSent, ack.Type)

	delivered := receiveFrame(t, bob)
	assert.Equal(t, MessageTypeMessageSent, delivered.Type)

	// Bob is not viewing the conversation, so no read reconciliation ran.
	assert.Empty(t, chat.markReadCalls())
}

func TestSendReconcilesReadForViewingPeer(t *testing.T) {
	chat := &stubChat{}
	m := newTestManager(t, chat)

	alice := NewClient("alice", nil)
	bob := NewClient("bob", nil)
	registerAndWait(t, m, alice)
	registerAndWait(t, m, bob)

	bob.mu.Lock()
	bob.activePeer = "alice"
	bob.mu.Unlock()

	m.handleSendMessage(alice, map[string]interface{}{
		"receiver_id": "bob",
		"content":     "hi bob",
	})

	receiveFrame(t, alice)
	receiveFrame(t, bob)

	require.Eventually(t, func() bool {
		return len(chat.markReadCalls()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, [2]string{"bob", "alice"}, chat.markReadCalls()[0])
}

func TestOfflinePeerIsSkipped(t *testing.T) {
	chat := &stubChat{}
	m := newTestManager(t, chat)

	alice := NewClient("alice", nil)
	registerAndWait(t, m, alice)

	assert.NotPanics(t, func() {
		m.handleSendMessage(alice, map[string]interface{}{
			"receiver_id": "bob",
			"content":     "anyone home?",
		})
	})

	ack := receiveFrame(t, alice)
	assert.Equal(t, MessageTypeMessageSent, ack.Type)
	assert.Empty(t, chat.markReadCalls())
}
