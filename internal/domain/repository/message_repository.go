package repository

import (
	"context"

	"skillswap/internal/domain/entity"
)

// MessageRepository is the append-only, per-conversation message log.
// Timestamps are assigned by the store at write time; callers never supply
// their own clock for ordering.
type MessageRepository interface {
	// Append stores a new message and populates its id and server-assigned
	// timestamp before returning.
	Append(ctx context.Context, conversationID string, message *entity.Message) error

	// ListByConversation returns the full log ordered by timestamp ascending,
	// ties broken by message id.
	ListByConversation(ctx context.Context, conversationID string) ([]*entity.Message, error)

	// MarkRead flips read to true on every message in the conversation
	// addressed to readerID that is still unread. Idempotent; returns the
	// number of messages updated.
	MarkRead(ctx context.Context, conversationID, readerID string) (int, error)

	// Subscribe delivers the full ordered message list on every change to the
	// conversation until ctx is cancelled. Listener failures are reported
	// through the callback's error argument.
	Subscribe(ctx context.Context, conversationID string, fn func(messages []*entity.Message, err error))
}
