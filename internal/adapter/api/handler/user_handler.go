package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"skillswap/internal/domain/entity"
	"skillswap/internal/usecase"
	"skillswap/pkg/errors"
	"skillswap/pkg/response"
	"skillswap/pkg/utils"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type skillRequest struct {
	Name        string `json:"name" validate:"required"`
	Proficiency string `json:"proficiency" validate:"omitempty,oneof=beginner intermediate expert"`
}

type updateProfileRequest struct {
	Name               string              `json:"name" validate:"omitempty,min=2"`
	Bio                string              `json:"bio" validate:"omitempty,max=1000"`
	Phone              string              `json:"phone" validate:"omitempty,e164"`
	Location           string              `json:"location"`
	LocationPreference string              `json:"location_preference" validate:"omitempty,oneof=online in-person both"`
	Availability       string              `json:"availability"`
	TeachableSkills    []skillRequest      `json:"teachable_skills" validate:"omitempty,dive"`
	DesiredSkills      []skillRequest      `json:"desired_skills" validate:"omitempty,dive"`
	SocialLinks        *entity.SocialLinks `json:"social_links"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	user, err := h.userUseCase.GetUserProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetUserByID(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return response.Error(c, errors.BadRequest("User ID is required", nil))
	}

	user, err := h.userUseCase.GetUserProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	input := usecase.UpdateProfileInput{
		Name:               req.Name,
		Bio:                req.Bio,
		Phone:              req.Phone,
		Location:           req.Location,
		LocationPreference: req.LocationPreference,
		Availability:       req.Availability,
		SocialLinks:        req.SocialLinks,
		TeachableSkills:    toSkillInputs(req.TeachableSkills),
		DesiredSkills:      toSkillInputs(req.DesiredSkills),
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), userID, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) BrowseUsers(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	params := utils.GetPaginationParams(c)

	users, total, err := h.userUseCase.BrowseUsers(c.Request().Context(), userID, usecase.BrowseUsersInput{
		Skill:              c.QueryParam("skill"),
		LocationPreference: c.QueryParam("location_preference"),
		Limit:              params.PageSize,
		Offset:             params.Offset,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, users, total, params.Page, params.PageSize)
}

func (h *UserHandler) GetFeaturedUsers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	users, err := h.userUseCase.FeaturedUsers(c.Request().Context(), limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, users)
}

func toSkillInputs(reqs []skillRequest) []usecase.SkillInput {
	if reqs == nil {
		return nil
	}
	inputs := make([]usecase.SkillInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, usecase.SkillInput{
			Name:        r.Name,
			Proficiency: r.Proficiency,
		})
	}
	return inputs
}

func getUserIDFromContext(c echo.Context) string {
	if uid, ok := c.Get("uid").(string); ok {
		return uid
	}
	return ""
}
