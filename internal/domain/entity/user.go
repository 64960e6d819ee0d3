package entity

import (
	"time"
)

type Skill struct {
	ID          string `json:"id" firestore:"id"`
	Name        string `json:"name" firestore:"name"`
	Proficiency string `json:"proficiency,omitempty" firestore:"proficiency,omitempty"` // "beginner", "intermediate", "expert"
}

type SocialLinks struct {
	Instagram string `json:"instagram,omitempty" firestore:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty" firestore:"facebook,omitempty"`
	Whatsapp  string `json:"whatsapp,omitempty" firestore:"whatsapp,omitempty"`
	Other     string `json:"other,omitempty" firestore:"other,omitempty"`
}

type User struct {
	ID             string `json:"id" firestore:"id"`
	Email          string `json:"email" firestore:"email"`
	Name           string `json:"name" firestore:"name"`
	Bio            string `json:"bio" firestore:"bio"`
	Phone          string `json:"phone,omitempty" firestore:"phone,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty" firestore:"profilePicture,omitempty"`

	Location           string `json:"location,omitempty" firestore:"location,omitempty"`
	LocationPreference string `json:"location_preference" firestore:"locationPreference"` // "in-person", "online", "both"
	Availability       string `json:"availability,omitempty" firestore:"availability,omitempty"`

	TeachableSkills []Skill `json:"teachable_skills" firestore:"teachableSkills"`
	DesiredSkills   []Skill `json:"desired_skills" firestore:"desiredSkills"`

	Rating         float64 `json:"rating" firestore:"rating"`
	CompletedSwaps int     `json:"completed_swaps" firestore:"completedSwaps"`

	SocialLinks *SocialLinks `json:"social_links,omitempty" firestore:"socialLinks,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
