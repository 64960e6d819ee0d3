package handler

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/usecase"
	"skillswap/pkg/errors"
	"skillswap/pkg/response"
	"skillswap/pkg/utils"
)

type ProposalHandler struct {
	proposalUseCase *usecase.ProposalUseCase
}

func NewProposalHandler(proposalUseCase *usecase.ProposalUseCase) *ProposalHandler {
	return &ProposalHandler{
		proposalUseCase: proposalUseCase,
	}
}

type createProposalRequest struct {
	RecipientID      string `json:"recipient_id" validate:"required"`
	OfferedSkillID   string `json:"offered_skill_id" validate:"required"`
	RequestedSkillID string `json:"requested_skill_id" validate:"required"`
	ProposedSchedule string `json:"proposed_schedule"`
	Duration         string `json:"duration"`
	LearningGoals    string `json:"learning_goals" validate:"omitempty,max=1000"`
}

type respondProposalRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted declined"`
}

func (h *ProposalHandler) CreateProposal(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	var req createProposalRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	proposal, err := h.proposalUseCase.CreateProposal(c.Request().Context(), userID, usecase.CreateProposalInput{
		RecipientID:      req.RecipientID,
		OfferedSkillID:   req.OfferedSkillID,
		RequestedSkillID: req.RequestedSkillID,
		ProposedSchedule: req.ProposedSchedule,
		Duration:         req.Duration,
		LearningGoals:    req.LearningGoals,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, proposal)
}

func (h *ProposalHandler) ListProposals(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	params := utils.GetPaginationParams(c)

	proposals, total, err := h.proposalUseCase.ListProposals(c.Request().Context(), userID, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, proposals, total, params.Page, params.PageSize)
}

func (h *ProposalHandler) RespondToProposal(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	proposalID := c.Param("id")
	if proposalID == "" {
		return response.Error(c, errors.BadRequest("Proposal ID is required", nil))
	}

	var req respondProposalRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	proposal, err := h.proposalUseCase.RespondToProposal(c.Request().Context(), userID, proposalID, req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, proposal)
}

func (h *ProposalHandler) CompleteProposal(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	proposalID := c.Param("id")
	if proposalID == "" {
		return response.Error(c, errors.BadRequest("Proposal ID is required", nil))
	}

	proposal, err := h.proposalUseCase.CompleteProposal(c.Request().Context(), userID, proposalID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, proposal)
}
