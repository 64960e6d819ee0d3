package repository

import (
	"context"

	"skillswap/internal/domain/entity"
)

// ConversationIndexRepository maintains each user's peer->summary map. The
// index is a denormalized cache for list rendering; it is never authoritative
// for message content or per-message read state.
type ConversationIndexRepository interface {
	// UpsertSummaryPair writes both sides' summary records for a sent message
	// in a single batch: the sender's record (unread=false, sentByMe=true)
	// and the receiver's record (unread=true, sentByMe=false).
	UpsertSummaryPair(ctx context.Context, senderID, receiverID, content string) error

	// MarkPeerRead clears the unread flag on userID's record for peerID.
	// Idempotent.
	MarkPeerRead(ctx context.Context, userID, peerID string) error

	GetSummary(ctx context.Context, userID, peerID string) (*entity.ConversationSummary, error)

	ListByUser(ctx context.Context, userID string) ([]*entity.ConversationSummary, error)

	// Subscribe delivers the user's full summary list on every change until
	// ctx is cancelled.
	Subscribe(ctx context.Context, userID string, fn func(summaries []*entity.ConversationSummary, err error))
}
