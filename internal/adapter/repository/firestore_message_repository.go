package repository

import (
	"context"
	"log"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
)

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) messages(conversationID string) *firestore.CollectionRef {
	return r.client.Collection("conversations").Doc(conversationID).Collection("messages")
}

func (r *firestoreMessageRepository) Append(ctx context.Context, conversationID string, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	docRef := r.messages(conversationID).Doc(message.ID)

	// The timestamp field carries the serverTimestamp sentinel, so the store
	// assigns it at write time regardless of the caller's clock.
	if _, err := docRef.Set(ctx, message); err != nil {
		return errors.Internal("Failed to append message", err)
	}

	// Read the document back so the caller sees the assigned timestamp.
	doc, err := docRef.Get(ctx)
	if err != nil {
		return errors.Internal("Failed to read back appended message", err)
	}
	if err := doc.DataTo(message); err != nil {
		return errors.Internal("Failed to parse appended message", err)
	}

	return nil
}

func (r *firestoreMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	iter := r.messages(conversationID).OrderBy("timestamp", firestore.Asc).Documents(ctx)

	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating messages for conversation %s: %v", conversationID, err)
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Error parsing message data for conversation %s: %v", conversationID, err)
			return nil, errors.Internal("Failed to parse message data", err)
		}

		messages = append(messages, &message)
	}

	sortMessages(messages)
	return messages, nil
}

func (r *firestoreMessageRepository) MarkRead(ctx context.Context, conversationID, readerID string) (int, error) {
	query := r.messages(conversationID).
		Where("receiverId", "==", readerID).
		Where("read", "==", false)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to query unread messages", err)
	}

	if len(docs) == 0 {
		return 0, nil
	}

	// Only unread messages addressed to the reader are touched, so repeating
	// the call is a no-op and read never reverts to false.
	batch := r.client.Batch()
	for _, doc := range docs {
		batch.Set(doc.Ref, map[string]interface{}{"read": true}, firestore.MergeAll)
	}

	if _, err := batch.Commit(ctx); err != nil {
		return 0, errors.Internal("Failed to mark messages as read", err)
	}

	return len(docs), nil
}

func (r *firestoreMessageRepository) Subscribe(ctx context.Context, conversationID string, fn func([]*entity.Message, error)) {
	go func() {
		snapIter := r.messages(conversationID).OrderBy("timestamp", firestore.Asc).Snapshots(ctx)
		defer snapIter.Stop()

		for {
			snap, err := snapIter.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled || ctx.Err() != nil {
					return
				}
				log.Printf("Firestore listener error for conversation %s: %v", conversationID, err)
				fn(nil, errors.Internal("Message subscription failed", err))
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				if status.Code(err) == codes.Canceled || ctx.Err() != nil {
					return
				}
				fn(nil, errors.Internal("Failed to read message snapshot", err))
				continue
			}

			var messages []*entity.Message
			skipped := false
			for _, doc := range docs {
				var message entity.Message
				if err := doc.DataTo(&message); err != nil {
					log.Printf("Error parsing message snapshot for conversation %s: %v", conversationID, err)
					skipped = true
					continue
				}
				messages = append(messages, &message)
			}
			if skipped && len(messages) == 0 {
				continue
			}

			sortMessages(messages)

			if ctx.Err() != nil {
				return
			}
			fn(messages, nil)
		}
	}()
}

// sortMessages orders by server timestamp ascending with the message id as a
// stable tiebreak, so near-simultaneous sends have a deterministic order even
// when the clock granularity cannot distinguish them.
func sortMessages(messages []*entity.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].Timestamp.Equal(messages[j].Timestamp) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
}
