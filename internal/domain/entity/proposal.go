package entity

import "time"

const (
	ProposalStatusPending   = "pending"
	ProposalStatusAccepted  = "accepted"
	ProposalStatusDeclined  = "declined"
	ProposalStatusCompleted = "completed"
)

type SwapProposal struct {
	ID               string    `json:"id" firestore:"id"`
	ProposerID       string    `json:"proposer_id" firestore:"proposerId"`
	RecipientID      string    `json:"recipient_id" firestore:"recipientId"`
	OfferedSkill     Skill     `json:"offered_skill" firestore:"offeredSkill"`
	RequestedSkill   Skill     `json:"requested_skill" firestore:"requestedSkill"`
	ProposedSchedule string    `json:"proposed_schedule" firestore:"proposedSchedule"`
	Duration         string    `json:"duration" firestore:"duration"`
	LearningGoals    string    `json:"learning_goals" firestore:"learningGoals"`
	Status           string    `json:"status" firestore:"status"` // "pending", "accepted", "declined", "completed"
	CreatedAt        time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt        time.Time `json:"updated_at" firestore:"updatedAt"`
}
