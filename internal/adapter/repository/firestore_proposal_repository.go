package repository

import (
	"context"
	"log"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
)

type firestoreProposalRepository struct {
	client *firestore.Client
}

func NewFirestoreProposalRepository(client *firestore.Client) repository.ProposalRepository {
	return &firestoreProposalRepository{
		client: client,
	}
}

func (r *firestoreProposalRepository) Create(ctx context.Context, proposal *entity.SwapProposal) error {
	if proposal.ID == "" {
		proposal.ID = uuid.New().String()
	}

	now := time.Now()
	proposal.CreatedAt = now
	proposal.UpdatedAt = now

	_, err := r.client.Collection("proposals").Doc(proposal.ID).Set(ctx, proposal)
	if err != nil {
		return errors.Internal("Failed to create proposal", err)
	}

	return nil
}

func (r *firestoreProposalRepository) GetByID(ctx context.Context, id string) (*entity.SwapProposal, error) {
	doc, err := r.client.Collection("proposals").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Proposal", err)
		}
		return nil, errors.Internal("Failed to get proposal", err)
	}

	var proposal entity.SwapProposal
	if err := doc.DataTo(&proposal); err != nil {
		return nil, errors.Internal("Failed to parse proposal data", err)
	}

	return &proposal, nil
}

func (r *firestoreProposalRepository) Update(ctx context.Context, proposal *entity.SwapProposal) error {
	proposal.UpdatedAt = time.Now()

	_, err := r.client.Collection("proposals").Doc(proposal.ID).Set(ctx, proposal)
	if err != nil {
		return errors.Internal("Failed to update proposal", err)
	}

	return nil
}

func (r *firestoreProposalRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.SwapProposal, int64, error) {
	// A user sees proposals from both sides; Firestore has no OR query on two
	// fields, so run both and merge.
	asProposer, err := r.client.Collection("proposals").Where("proposerId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to query proposals", err)
	}
	asRecipient, err := r.client.Collection("proposals").Where("recipientId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to query proposals", err)
	}

	var proposals []*entity.SwapProposal
	for _, doc := range append(asProposer, asRecipient...) {
		var proposal entity.SwapProposal
		if err := doc.DataTo(&proposal); err != nil {
			log.Printf("Error parsing proposal data for user %s: %v", userID, err)
			continue
		}
		proposals = append(proposals, &proposal)
	}

	sort.Slice(proposals, func(i, j int) bool {
		return proposals[i].CreatedAt.After(proposals[j].CreatedAt)
	})

	total := int64(len(proposals))

	start := offset
	end := len(proposals)
	if limit > 0 {
		end = start + limit
		if end > len(proposals) {
			end = len(proposals)
		}
	}
	if start > len(proposals) {
		start = len(proposals)
	}

	return proposals[start:end], total, nil
}
