package entity

import "time"

// ConversationID returns the canonical channel identifier for a pair of
// participants. The pair is sorted so that both sides resolve the same id
// regardless of who initiates.
func ConversationID(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + "_" + userB
}

// ConversationSummary is the denormalized per-user cache record for list
// rendering. The message log remains the source of truth for content and
// per-message read state.
type ConversationSummary struct {
	PeerID              string    `json:"peer_id" firestore:"peerId"`
	LastMessage         string    `json:"last_message" firestore:"lastMessage"`
	Timestamp           time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	Unread              bool      `json:"unread" firestore:"unread"`
	LastMessageSentByMe bool      `json:"last_message_sent_by_me" firestore:"lastMessageSentByMe"`
}
