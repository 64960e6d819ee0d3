package usecase

import (
	"context"
	"fmt"
	"log"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/ratelimit"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

type ProposalUseCase struct {
	proposalRepo repository.ProposalRepository
	userRepo     repository.UserRepository
	chatUseCase  *ChatUseCase
	rateLimiter  *ratelimit.RateLimiter
}

func NewProposalUseCase(
	proposalRepo repository.ProposalRepository,
	userRepo repository.UserRepository,
	chatUseCase *ChatUseCase,
) *ProposalUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ProposalUseCase{
		proposalRepo: proposalRepo,
		userRepo:     userRepo,
		chatUseCase:  chatUseCase,
		rateLimiter:  rateLimiter,
	}
}

type CreateProposalInput struct {
	RecipientID      string
	OfferedSkillID   string
	RequestedSkillID string
	ProposedSchedule string
	Duration         string
	LearningGoals    string
}

// CreateProposal records a swap proposal and announces it through an ordinary
// chat message to the recipient. The proposal itself is simple state tagging;
// the announcement rides the messaging core.
func (uc *ProposalUseCase) CreateProposal(ctx context.Context, proposerID string, input CreateProposalInput) (*entity.SwapProposal, error) {
	if proposerID == input.RecipientID {
		return nil, errors.BadRequest("You cannot propose a swap with yourself", nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow(proposerID, "create_proposal")
	if !allowed {
		log.Printf("CreateProposal Rate Limited: User %s must wait %v", proposerID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before creating another proposal", waitTime)
	}

	proposer, err := uc.userRepo.GetByID(ctx, proposerID)
	if err != nil {
		return nil, errors.NotFound("Proposer", err)
	}

	recipient, err := uc.userRepo.GetByID(ctx, input.RecipientID)
	if err != nil {
		return nil, errors.NotFound("Recipient", err)
	}

	offeredSkill, ok := findSkill(proposer.TeachableSkills, input.OfferedSkillID)
	if !ok {
		return nil, errors.BadRequest("Offered skill is not one of your teachable skills", nil)
	}

	requestedSkill, ok := findSkill(recipient.TeachableSkills, input.RequestedSkillID)
	if !ok {
		return nil, errors.BadRequest("Requested skill is not taught by the recipient", nil)
	}

	proposal := &entity.SwapProposal{
		ProposerID:       proposerID,
		RecipientID:      input.RecipientID,
		OfferedSkill:     offeredSkill,
		RequestedSkill:   requestedSkill,
		ProposedSchedule: input.ProposedSchedule,
		Duration:         input.Duration,
		LearningGoals:    input.LearningGoals,
		Status:           entity.ProposalStatusPending,
	}

	if err := uc.proposalRepo.Create(ctx, proposal); err != nil {
		log.Printf("CreateProposal Error: Failed to create proposal from %s to %s: %v", proposerID, input.RecipientID, err)
		return nil, err
	}

	announcement := fmt.Sprintf(
		"I've sent you a skill swap proposal! I'd like to teach you %s in exchange for learning %s.",
		offeredSkill.Name, requestedSkill.Name,
	)
	if _, err := uc.chatUseCase.SendMessage(ctx, proposerID, SendMessageInput{
		ReceiverID: input.RecipientID,
		Content:    announcement,
	}); err != nil {
		// The proposal stands on its own; a failed announcement only costs
		// the chat notification.
		logger.Warn("Failed to send proposal announcement for proposal %s: %v", proposal.ID, err)
	}

	return proposal, nil
}

// RespondToProposal lets the recipient accept or decline a pending proposal.
func (uc *ProposalUseCase) RespondToProposal(ctx context.Context, userID, proposalID, status string) (*entity.SwapProposal, error) {
	if status != entity.ProposalStatusAccepted && status != entity.ProposalStatusDeclined {
		return nil, errors.BadRequest("Response must be accepted or declined", nil)
	}

	proposal, err := uc.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	if proposal.RecipientID != userID {
		return nil, errors.Forbidden("Only the proposal recipient can respond", nil)
	}
	if proposal.Status != entity.ProposalStatusPending {
		return nil, errors.BadRequest("Proposal is not pending", nil)
	}

	proposal.Status = status
	if err := uc.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, err
	}

	return proposal, nil
}

// CompleteProposal marks an accepted swap as completed and bumps both
// participants' completed-swap counters.
func (uc *ProposalUseCase) CompleteProposal(ctx context.Context, userID, proposalID string) (*entity.SwapProposal, error) {
	proposal, err := uc.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	if proposal.ProposerID != userID && proposal.RecipientID != userID {
		return nil, errors.Forbidden("Only a proposal participant can complete it", nil)
	}
	if proposal.Status != entity.ProposalStatusAccepted {
		return nil, errors.BadRequest("Only an accepted proposal can be completed", nil)
	}

	proposal.Status = entity.ProposalStatusCompleted
	if err := uc.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, err
	}

	for _, id := range []string{proposal.ProposerID, proposal.RecipientID} {
		user, err := uc.userRepo.GetByID(ctx, id)
		if err != nil {
			logger.Warn("CompleteProposal: failed to load user %s for swap counter: %v", id, err)
			continue
		}
		user.CompletedSwaps++
		if err := uc.userRepo.Update(ctx, user); err != nil {
			logger.Warn("CompleteProposal: failed to bump swap counter for user %s: %v", id, err)
		}
	}

	return proposal, nil
}

func (uc *ProposalUseCase) ListProposals(ctx context.Context, userID string, limit, offset int) ([]*entity.SwapProposal, int64, error) {
	return uc.proposalRepo.ListByUser(ctx, userID, limit, offset)
}

func findSkill(skills []entity.Skill, id string) (entity.Skill, bool) {
	for _, skill := range skills {
		if skill.ID == id {
			return skill, true
		}
	}
	return entity.Skill{}, false
}
