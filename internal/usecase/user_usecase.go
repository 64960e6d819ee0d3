package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
	}
}

type SkillInput struct {
	Name        string
	Proficiency string
}

type UpdateProfileInput struct {
	Name               string
	Bio                string
	Phone              string
	Location           string
	LocationPreference string
	Availability       string
	ProfilePicture     string
	TeachableSkills    []SkillInput
	DesiredSkills      []SkillInput
	SocialLinks        *entity.SocialLinks
}

type BrowseUsersInput struct {
	Skill              string
	LocationPreference string
	Limit              int
	Offset             int
}

func (uc *UserUseCase) GetUserProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	return user, nil
}

// UpdateProfile replaces the profile's mutable fields. Skill lists are
// replaced wholesale, matching the edit form's submit-all semantics.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Location != "" {
		user.Location = input.Location
	}
	if input.LocationPreference != "" {
		user.LocationPreference = input.LocationPreference
	}
	if input.Availability != "" {
		user.Availability = input.Availability
	}
	if input.ProfilePicture != "" {
		user.ProfilePicture = input.ProfilePicture
	}
	if input.SocialLinks != nil {
		user.SocialLinks = input.SocialLinks
	}

	if input.TeachableSkills != nil {
		user.TeachableSkills = buildSkills(input.TeachableSkills, true)
	}
	if input.DesiredSkills != nil {
		user.DesiredSkills = buildSkills(input.DesiredSkills, false)
	}

	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Internal("Failed to update user profile", err)
	}

	return user, nil
}

func buildSkills(inputs []SkillInput, withProficiency bool) []entity.Skill {
	skills := make([]entity.Skill, 0, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			continue
		}

		skill := entity.Skill{
			ID:   uuid.New().String(),
			Name: name,
		}
		if withProficiency {
			skill.Proficiency = in.Proficiency
			if skill.Proficiency == "" {
				skill.Proficiency = "intermediate"
			}
		}

		skills = append(skills, skill)
	}
	return skills
}

// BrowseUsers lists profiles with optional skill and location-preference
// filters. Skill matching is a case-insensitive substring match against
// teachable skill names.
func (uc *UserUseCase) BrowseUsers(ctx context.Context, currentUserID string, input BrowseUsersInput) ([]*entity.User, int64, error) {
	users, _, err := uc.userRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, 0, err
	}

	skillFilter := strings.ToLower(strings.TrimSpace(input.Skill))

	var matched []*entity.User
	for _, user := range users {
		if user.ID == currentUserID {
			continue
		}
		if input.LocationPreference != "" && input.LocationPreference != "both" {
			if user.LocationPreference != input.LocationPreference && user.LocationPreference != "both" {
				continue
			}
		}
		if skillFilter != "" && !teachesSkill(user, skillFilter) {
			continue
		}
		matched = append(matched, user)
	}

	total := int64(len(matched))

	start := input.Offset
	end := len(matched)
	if input.Limit > 0 {
		end = start + input.Limit
		if end > len(matched) {
			end = len(matched)
		}
	}
	if start > len(matched) {
		start = len(matched)
	}

	return matched[start:end], total, nil
}

// FeaturedUsers returns the top-rated profiles for the landing view, ties
// broken by completed swap count.
func (uc *UserUseCase) FeaturedUsers(ctx context.Context, limit int) ([]*entity.User, error) {
	users, _, err := uc.userRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Rating == users[j].Rating {
			return users[i].CompletedSwaps > users[j].CompletedSwaps
		}
		return users[i].Rating > users[j].Rating
	})

	if limit <= 0 {
		limit = 6
	}
	if limit > len(users) {
		limit = len(users)
	}

	return users[:limit], nil
}

func teachesSkill(user *entity.User, lowered string) bool {
	for _, skill := range user.TeachableSkills {
		if strings.Contains(strings.ToLower(skill.Name), lowered) {
			return true
		}
	}
	return false
}
