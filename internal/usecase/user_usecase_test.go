package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/domain/entity"
)

func TestUpdateProfileReplacesSkillsWholesale(t *testing.T) {
	user := testUser("alice")
	user.TeachableSkills = []entity.Skill{
		{ID: "old-1", Name: "Knitting", Proficiency: "expert"},
		{ID: "old-2", Name: "Chess", Proficiency: "intermediate"},
	}
	userRepo := newFakeUserRepo(user)
	uc := NewUserUseCase(userRepo)

	updated, err := uc.UpdateProfile(context.Background(), "alice", UpdateProfileInput{
		TeachableSkills: []SkillInput{
			{Name: "Go", Proficiency: "expert"},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.TeachableSkills, 1)
	assert.Equal(t, "Go", updated.TeachableSkills[0].Name)
	assert.Equal(t, "expert", updated.TeachableSkills[0].Proficiency)
	assert.NotEmpty(t, updated.TeachableSkills[0].ID)
}

func TestUpdateProfileDefaultsProficiency(t *testing.T) {
	userRepo := newFakeUserRepo(testUser("alice"))
	uc := NewUserUseCase(userRepo)

	updated, err := uc.UpdateProfile(context.Background(), "alice", UpdateProfileInput{
		TeachableSkills: []SkillInput{{Name: "Cooking"}},
	})
	require.NoError(t, err)

	require.Len(t, updated.TeachableSkills, 1)
	assert.Equal(t, "intermediate", updated.TeachableSkills[0].Proficiency)
}

func TestUpdateProfileSkipsBlankSkillNames(t *testing.T) {
	userRepo := newFakeUserRepo(testUser("alice"))
	uc := NewUserUseCase(userRepo)

	updated, err := uc.UpdateProfile(context.Background(), "alice", UpdateProfileInput{
		DesiredSkills: []SkillInput{
			{Name: "   "},
			{Name: "Spanish"},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.DesiredSkills, 1)
	assert.Equal(t, "Spanish", updated.DesiredSkills[0].Name)
}

func TestBrowseUsersExcludesSelfAndFilters(t *testing.T) {
	alice := testUser("alice")

	bob := testUser("bob")
	bob.LocationPreference = "online"
	bob.TeachableSkills = []entity.Skill{{ID: "s1", Name: "Guitar"}}

	carol := testUser("carol")
	carol.LocationPreference = "in-person"
	carol.TeachableSkills = []entity.Skill{{ID: "s2", Name: "Photography"}}

	dave := testUser("dave")
	dave.LocationPreference = "both"
	dave.TeachableSkills = []entity.Skill{{ID: "s3", Name: "Guitar Repair"}}

	userRepo := newFakeUserRepo(alice, bob, carol, dave)
	uc := NewUserUseCase(userRepo)

	t.Run("excludes the caller", func(t *testing.T) {
		users, total, err := uc.BrowseUsers(context.Background(), "alice", BrowseUsersInput{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		for _, u := range users {
			assert.NotEqual(t, "alice", u.ID)
		}
	})

	t.Run("skill filter is a case-insensitive substring match", func(t *testing.T) {
		users, total, err := uc.BrowseUsers(context.Background(), "alice", BrowseUsersInput{Skill: "guitar"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		ids := []string{users[0].ID, users[1].ID}
		assert.Contains(t, ids, "bob")
		assert.Contains(t, ids, "dave")
	})

	t.Run("location preference matches both as wildcard", func(t *testing.T) {
		users, total, err := uc.BrowseUsers(context.Background(), "alice", BrowseUsersInput{LocationPreference: "online"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		ids := []string{users[0].ID, users[1].ID}
		assert.Contains(t, ids, "bob")
		assert.Contains(t, ids, "dave")
	})

	t.Run("featured users rank by rating then completed swaps", func(t *testing.T) {
		bob.Rating = 4.5
		carol.Rating = 5.0
		dave.Rating = 4.5
		dave.CompletedSwaps = 7

		featured, err := uc.FeaturedUsers(context.Background(), 3)
		require.NoError(t, err)
		require.Len(t, featured, 3)
		assert.Equal(t, "carol", featured[0].ID)
		assert.Equal(t, "dave", featured[1].ID)
		assert.Equal(t, "bob", featured[2].ID)
	})

	t.Run("pagination windows the result", func(t *testing.T) {
		users, total, err := uc.BrowseUsers(context.Background(), "alice", BrowseUsersInput{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, users, 2)

		users, _, err = uc.BrowseUsers(context.Background(), "alice", BrowseUsersInput{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}
