package repository

import (
	"context"

	"skillswap/internal/domain/entity"
)

type ProposalRepository interface {
	Create(ctx context.Context, proposal *entity.SwapProposal) error
	GetByID(ctx context.Context, id string) (*entity.SwapProposal, error)
	Update(ctx context.Context, proposal *entity.SwapProposal) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.SwapProposal, int64, error)
}
