package domain

import "time"

// SubmissionStatus is the submission state machine. The only transitions are
// pending -> approved and pending -> rejected; both targets are terminal.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// ValidReviewStatus reports whether s is a reviewable target state.
func ValidReviewStatus(s SubmissionStatus) bool {
	return s == StatusApproved || s == StatusRejected
}

// Submission is a member's proof of activity. TokenReward is snapshotted from
// the activity at creation time and is independent of later activity edits.
type Submission struct {
	ID                string           `json:"id"`
	ActivityID        string           `json:"activity_id"`
	SubmitterIdentity string           `json:"wallet_address"`
	ProofText         string           `json:"proof_text"`
	ProofURL          string           `json:"proof_url,omitempty"`
	Status            SubmissionStatus `json:"status"`
	ReviewNote        string           `json:"review_note,omitempty"`
	ReviewerIdentity  string           `json:"reviewer_wallet,omitempty"`
	TokenReward       int64            `json:"token_reward"`
	ActivityTitle     string           `json:"activity_title,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	ReviewedAt        *time.Time       `json:"reviewed_at,omitempty"`
}

// SubmissionCreateRequest submits proof for an activity.
type SubmissionCreateRequest struct {
	ActivityID string `json:"activity_id"`
	ProofText  string `json:"proof_text"`
	ProofURL   string `json:"proof_url,omitempty"`
}

// SubmissionReviewRequest is a moderator's review decision.
type SubmissionReviewRequest struct {
	Status     SubmissionStatus `json:"status"`
	ReviewNote string           `json:"review_note,omitempty"`
}
