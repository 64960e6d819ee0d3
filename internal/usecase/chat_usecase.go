package usecase

import (
	"context"
	"log"
	"sort"
	"strings"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/ratelimit"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

// Conversation list filters, evaluated against the latest entry only.
const (
	FilterAll      = "all"
	FilterSent     = "sent"
	FilterReceived = "received"
)

type ChatUseCase struct {
	messageRepo repository.MessageRepository
	indexRepo   repository.ConversationIndexRepository
	userRepo    repository.UserRepository
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	messageRepo repository.MessageRepository,
	indexRepo repository.ConversationIndexRepository,
	userRepo repository.UserRepository,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		messageRepo: messageRepo,
		indexRepo:   indexRepo,
		userRepo:    userRepo,
		rateLimiter: rateLimiter,
	}
}

type SendMessageInput struct {
	ReceiverID string
	Content    string
}

type ConversationResponse struct {
	*entity.ConversationSummary
	Peer *entity.User `json:"peer,omitempty"`
}

// SendMessage appends one message to the pair's conversation and fans the
// summary out to both participants' indexes. The append is the delivery
// guarantee; a summary failure afterwards degrades the list view only and is
// not surfaced as a send failure.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*entity.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.BadRequest("Message content cannot be empty", nil)
	}

	if senderID == input.ReceiverID {
		return nil, errors.BadRequest("You cannot send a message to yourself", nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow(senderID, "send_message")
	if !allowed {
		log.Printf("SendMessage Rate Limited: User %s must wait %v", senderID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message", waitTime)
	}

	if _, err := uc.userRepo.GetByID(ctx, input.ReceiverID); err != nil {
		log.Printf("SendMessage Error: Recipient %s not found: %v", input.ReceiverID, err)
		return nil, errors.NotFound("Recipient", err)
	}

	conversationID := entity.ConversationID(senderID, input.ReceiverID)

	message := &entity.Message{
		SenderID:   senderID,
		ReceiverID: input.ReceiverID,
		Content:    content,
		Read:       false,
	}

	if err := uc.messageRepo.Append(ctx, conversationID, message); err != nil {
		log.Printf("SendMessage Error: Failed to append message to conversation %s: %v", conversationID, err)
		return nil, err
	}

	if err := uc.indexRepo.UpsertSummaryPair(ctx, senderID, input.ReceiverID, content); err != nil {
		// The message is already delivered; the stale summary heals on the
		// next send or an explicit resync.
		logger.Warn("Summary upsert failed after append for conversation %s: %v", conversationID, err)
	}

	return message, nil
}

// OpenConversation returns the ordered message log for the pair and runs the
// read-reconciliation step: any unread messages addressed to userID flip to
// read, and the user's summary record for the peer clears its unread flag.
func (uc *ChatUseCase) OpenConversation(ctx context.Context, userID, peerID string) ([]*entity.Message, error) {
	if _, err := uc.userRepo.GetByID(ctx, peerID); err != nil {
		return nil, errors.NotFound("Peer", err)
	}

	conversationID := entity.ConversationID(userID, peerID)

	messages, err := uc.messageRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	hasUnread := false
	for _, message := range messages {
		if message.ReceiverID == userID && !message.Read {
			hasUnread = true
			break
		}
	}

	if hasUnread {
		// Non-critical path: reconciliation failures are logged, never
		// surfaced to the caller.
		if err := uc.MarkConversationRead(ctx, userID, peerID); err != nil {
			logger.Warn("Read reconciliation failed for conversation %s: %v", conversationID, err)
		} else {
			for _, message := range messages {
				if message.ReceiverID == userID {
					message.Read = true
				}
			}
		}
	}

	return messages, nil
}

// MarkConversationRead flips message-level read flags and the coarse summary
// flag together. Idempotent. Summary records only exist once a message has
// been sent, so when nothing was flipped and no summary is present the call
// is a no-op rather than a merge write that would plant a phantom record.
func (uc *ChatUseCase) MarkConversationRead(ctx context.Context, userID, peerID string) error {
	conversationID := entity.ConversationID(userID, peerID)

	updated, err := uc.messageRepo.MarkRead(ctx, conversationID, userID)
	if err != nil {
		return err
	}

	if updated == 0 {
		if _, err := uc.indexRepo.GetSummary(ctx, userID, peerID); err != nil {
			if errors.Is(err, "NOT_FOUND") {
				return nil
			}
			return err
		}
	}

	if err := uc.indexRepo.MarkPeerRead(ctx, userID, peerID); err != nil {
		return err
	}

	return nil
}

// ListConversations turns the user's summary map into a sorted, filterable
// list for the sidebar. Sort is by summary timestamp descending.
func (uc *ChatUseCase) ListConversations(ctx context.Context, userID, filter string) ([]*ConversationResponse, error) {
	switch filter {
	case "", FilterAll, FilterSent, FilterReceived:
	default:
		return nil, errors.BadRequest("Unknown conversation filter: "+filter, nil)
	}

	summaries, err := uc.indexRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := FilterSummaries(summaries, filter)

	responses := make([]*ConversationResponse, 0, len(filtered))
	for _, summary := range filtered {
		resp := &ConversationResponse{ConversationSummary: summary}
		if peer, err := uc.userRepo.GetByID(ctx, summary.PeerID); err == nil {
			resp.Peer = peer
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

// FilterSummaries applies a conversation list filter and sorts by timestamp
// descending. The filter looks at each conversation's latest entry only.
func FilterSummaries(summaries []*entity.ConversationSummary, filter string) []*entity.ConversationSummary {
	var filtered []*entity.ConversationSummary
	for _, summary := range summaries {
		switch filter {
		case FilterSent:
			if !summary.LastMessageSentByMe {
				continue
			}
		case FilterReceived:
			if summary.LastMessageSentByMe {
				continue
			}
		}
		filtered = append(filtered, summary)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})

	return filtered
}

// SendDirectMessage is the plain-argument form used by the WebSocket layer.
func (uc *ChatUseCase) SendDirectMessage(ctx context.Context, senderID, receiverID, content string) (*entity.Message, error) {
	return uc.SendMessage(ctx, senderID, SendMessageInput{
		ReceiverID: receiverID,
		Content:    content,
	})
}
