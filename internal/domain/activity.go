package domain

import "time"

// ActivityCategory classifies reward-eligible activities.
type ActivityCategory string

const (
	CategorySocial       ActivityCategory = "social"
	CategoryEvent        ActivityCategory = "event"
	CategoryContribution ActivityCategory = "contribution"
	CategoryAttendance   ActivityCategory = "attendance"
	CategoryGeneral      ActivityCategory = "general"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c ActivityCategory) bool {
	switch c {
	case CategorySocial, CategoryEvent, CategoryContribution, CategoryAttendance, CategoryGeneral:
		return true
	}
	return false
}

// Activity is a reward-eligible activity in the catalog.
// Deactivation is logical: inactive activities are hidden from new
// submissions while historical submissions keep their reward snapshot.
type Activity struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	TokenReward int64            `json:"token_reward"`
	Category    ActivityCategory `json:"category"`
	IsActive    bool             `json:"is_active"`
	CreatedBy   string           `json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ActivityCreateRequest creates a new activity (moderator only).
type ActivityCreateRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	TokenReward int64            `json:"token_reward"`
	Category    ActivityCategory `json:"category"`
}

// ActivityUpdateRequest partially updates an activity (moderator only).
// Nil fields are left unchanged.
type ActivityUpdateRequest struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	TokenReward *int64            `json:"token_reward,omitempty"`
	Category    *ActivityCategory `json:"category,omitempty"`
	IsActive    *bool             `json:"is_active,omitempty"`
}
