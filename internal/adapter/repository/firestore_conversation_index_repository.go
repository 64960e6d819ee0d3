package repository

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
)

type firestoreConversationIndexRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationIndexRepository(client *firestore.Client) repository.ConversationIndexRepository {
	return &firestoreConversationIndexRepository{
		client: client,
	}
}

func (r *firestoreConversationIndexRepository) summaryDoc(userID, peerID string) *firestore.DocumentRef {
	return r.client.Collection("users").Doc(userID).Collection("conversations").Doc(peerID)
}

func (r *firestoreConversationIndexRepository) UpsertSummaryPair(ctx context.Context, senderID, receiverID, content string) error {
	// Both records ride one batch. The store applies it atomically, but the
	// caller still treats a failure here as a degraded cache, not a lost
	// message: the log append has already succeeded by the time this runs.
	batch := r.client.Batch()

	batch.Set(r.summaryDoc(senderID, receiverID), &entity.ConversationSummary{
		PeerID:              receiverID,
		LastMessage:         content,
		Unread:              false,
		LastMessageSentByMe: true,
	})

	batch.Set(r.summaryDoc(receiverID, senderID), &entity.ConversationSummary{
		PeerID:              senderID,
		LastMessage:         content,
		Unread:              true,
		LastMessageSentByMe: false,
	})

	if _, err := batch.Commit(ctx); err != nil {
		return errors.Internal("Failed to upsert conversation summaries", err)
	}

	return nil
}

func (r *firestoreConversationIndexRepository) MarkPeerRead(ctx context.Context, userID, peerID string) error {
	_, err := r.summaryDoc(userID, peerID).Set(ctx, map[string]interface{}{
		"unread": false,
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to mark conversation summary as read", err)
	}

	return nil
}

func (r *firestoreConversationIndexRepository) GetSummary(ctx context.Context, userID, peerID string) (*entity.ConversationSummary, error) {
	doc, err := r.summaryDoc(userID, peerID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation summary", err)
		}
		return nil, errors.Internal("Failed to get conversation summary", err)
	}

	var summary entity.ConversationSummary
	if err := doc.DataTo(&summary); err != nil {
		return nil, errors.Internal("Failed to parse conversation summary", err)
	}
	if summary.PeerID == "" {
		summary.PeerID = doc.Ref.ID
	}

	return &summary, nil
}

func (r *firestoreConversationIndexRepository) ListByUser(ctx context.Context, userID string) ([]*entity.ConversationSummary, error) {
	iter := r.client.Collection("users").Doc(userID).Collection("conversations").Documents(ctx)

	var summaries []*entity.ConversationSummary
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating conversation index for user %s: %v", userID, err)
			return nil, errors.Internal("Failed to iterate conversation index", err)
		}

		var summary entity.ConversationSummary
		if err := doc.DataTo(&summary); err != nil {
			log.Printf("Error parsing conversation summary for user %s: %v", userID, err)
			continue
		}
		if summary.PeerID == "" {
			summary.PeerID = doc.Ref.ID
		}

		summaries = append(summaries, &summary)
	}

	return summaries, nil
}

func (r *firestoreConversationIndexRepository) Subscribe(ctx context.Context, userID string, fn func([]*entity.ConversationSummary, error)) {
	go func() {
		snapIter := r.client.Collection("users").Doc(userID).Collection("conversations").Snapshots(ctx)
		defer snapIter.Stop()

		for {
			snap, err := snapIter.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled || ctx.Err() != nil {
					return
				}
				log.Printf("Firestore listener error for conversation index of user %s: %v", userID, err)
				fn(nil, errors.Internal("Conversation index subscription failed", err))
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				if status.Code(err) == codes.Canceled || ctx.Err() != nil {
					return
				}
				fn(nil, errors.Internal("Failed to read conversation index snapshot", err))
				continue
			}

			var summaries []*entity.ConversationSummary
			for _, doc := range docs {
				var summary entity.ConversationSummary
				if err := doc.DataTo(&summary); err != nil {
					log.Printf("Error parsing conversation index snapshot for user %s: %v", userID, err)
					continue
				}
				if summary.PeerID == "" {
					summary.PeerID = doc.Ref.ID
				}
				summaries = append(summaries, &summary)
			}

			if ctx.Err() != nil {
				return
			}
			fn(summaries, nil)
		}
	}()
}
