package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/domain/entity"
	"skillswap/pkg/errors"
)

func newProposalFixture() (*ProposalUseCase, *fakeProposalRepo, *fakeMessageRepo, *fakeUserRepo) {
	proposer := testUser("alice")
	proposer.TeachableSkills = []entity.Skill{
		{ID: "skill-go", Name: "Go", Proficiency: "expert"},
	}
	recipient := testUser("bob")
	recipient.TeachableSkills = []entity.Skill{
		{ID: "skill-piano", Name: "Piano", Proficiency: "expert"},
	}

	messageRepo := newFakeMessageRepo()
	indexRepo := newFakeIndexRepo()
	userRepo := newFakeUserRepo(proposer, recipient)
	proposalRepo := newFakeProposalRepo()

	chatUC := NewChatUseCase(messageRepo, indexRepo, userRepo)
	uc := NewProposalUseCase(proposalRepo, userRepo, chatUC)
	return uc, proposalRepo, messageRepo, userRepo
}

func validProposalInput() CreateProposalInput {
	return CreateProposalInput{
		RecipientID:      "bob",
		OfferedSkillID:   "skill-go",
		RequestedSkillID: "skill-piano",
		ProposedSchedule: "Tuesdays 7pm",
		Duration:         "4 weeks",
		LearningGoals:    "Play one full song",
	}
}

func TestCreateProposalAnnouncesViaChat(t *testing.T) {
	uc, _, messageRepo, _ := newProposalFixture()

	proposal, err := uc.CreateProposal(context.Background(), "alice", validProposalInput())
	require.NoError(t, err)

	assert.NotEmpty(t, proposal.ID)
	assert.Equal(t, entity.ProposalStatusPending, proposal.Status)
	assert.Equal(t, "Go", proposal.OfferedSkill.Name)
	assert.Equal(t, "Piano", proposal.RequestedSkill.Name)

	conversationID := entity.ConversationID("alice", "bob")
	messages, err := messageRepo.ListByConversation(context.Background(), conversationID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "alice", messages[0].SenderID)
	assert.Contains(t, messages[0].Content, "skill swap proposal")
	assert.Contains(t, messages[0].Content, "Go")
	assert.Contains(t, messages[0].Content, "Piano")
}

func TestCreateProposalRejectsSelfProposal(t *testing.T) {
	uc, _, _, _ := newProposalFixture()

	input := validProposalInput()
	input.RecipientID = "alice"

	_, err := uc.CreateProposal(context.Background(), "alice", input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCreateProposalValidatesSkillOwnership(t *testing.T) {
	uc, _, _, _ := newProposalFixture()

	t.Run("offered skill must be teachable by proposer", func(t *testing.T) {
		input := validProposalInput()
		input.OfferedSkillID = "skill-piano"
		_, err := uc.CreateProposal(context.Background(), "alice", input)
		require.Error(t, err)
		assert.True(t, errors.Is(err, "BAD_REQUEST"))
	})

	t.Run("requested skill must be taught by recipient", func(t *testing.T) {
		input := validProposalInput()
		input.RequestedSkillID = "skill-go"
		_, err := uc.CreateProposal(context.Background(), "alice", input)
		require.Error(t, err)
		assert.True(t, errors.Is(err, "BAD_REQUEST"))
	})
}

func TestCreateProposalRateLimited(t *testing.T) {
	uc, _, _, _ := newProposalFixture()

	for i := 0; i < 5; i++ {
		_, err := uc.CreateProposal(context.Background(), "alice", validProposalInput())
		require.NoError(t, err)
	}

	_, err := uc.CreateProposal(context.Background(), "alice", validProposalInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, "TOO_MANY_REQUESTS"))
}

func TestRespondToProposal(t *testing.T) {
	uc, _, _, _ := newProposalFixture()

	proposal, err := uc.CreateProposal(context.Background(), "alice", validProposalInput())
	require.NoError(t, err)

	t.Run("only recipient can respond", func(t *testing.T) {
		_, err := uc.RespondToProposal(context.Background(), "alice", proposal.ID, entity.ProposalStatusAccepted)
		require.Error(t, err)
		assert.True(t, errors.Is(err, "FORBIDDEN"))
	})

	t.Run("status must be accepted or declined", func(t *testing.T) {
		_, err := uc.RespondToProposal(context.Background(), "bob", proposal.ID, "maybe")
		require.Error(t, err)
		assert.True(t, errors.Is(err, "BAD_REQUEST"))
	})

	t.Run("recipient accepts", func(t *testing.T) {
		updated, err := uc.RespondToProposal(context.Background(), "bob", proposal.ID, entity.ProposalStatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, entity.ProposalStatusAccepted, updated.Status)
	})

	t.Run("cannot respond twice", func(t *testing.T) {
		_, err := uc.RespondToProposal(context.Background(), "bob", proposal.ID, entity.ProposalStatusDeclined)
		require.Error(t, err)
		assert.True(t, errors.Is(err, "BAD_REQUEST"))
	})
}

func TestCompleteProposalBumpsSwapCounters(t *testing.T) {
	uc, _, _, userRepo := newProposalFixture()

	proposal, err := uc.CreateProposal(context.Background(), "alice", validProposalInput())
	require.NoError(t, err)

	_, err = uc.RespondToProposal(context.Background(), "bob", proposal.ID, entity.ProposalStatusAccepted)
	require.NoError(t, err)

	completed, err := uc.CompleteProposal(context.Background(), "alice", proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProposalStatusCompleted, completed.Status)

	alice, err := userRepo.GetByID(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, alice.CompletedSwaps)

	bob, err := userRepo.GetByID(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, bob.CompletedSwaps)
}

func TestCompleteProposalRequiresAcceptedStatus(t *testing.T) {
	uc, _, _, _ := newProposalFixture()

	proposal, err := uc.CreateProposal(context.Background(), "alice", validProposalInput())
	require.NoError(t, err)

	_, err = uc.CompleteProposal(context.Background(), "alice", proposal.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCompleteProposalRequiresParticipant(t *testing.T) {
	uc, _, _, _ := newProposalFixture()

	proposal, err := uc.CreateProposal(context.Background(), "alice", validProposalInput())
	require.NoError(t, err)

	_, err = uc.RespondToProposal(context.Background(), "bob", proposal.ID, entity.ProposalStatusAccepted)
	require.NoError(t, err)

	_, err = uc.CompleteProposal(context.Background(), "mallory", proposal.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}
