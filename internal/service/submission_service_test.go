package service

import (
	"context"
	"testing"

	"club-rewards/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubmissionFixture(t *testing.T) (*SubmissionService, *memActivityStore, *memSubmissionStore) {
	t.Helper()
	activities := newMemActivityStore()
	submissions := newMemSubmissionStore()
	return NewSubmissionService(submissions, activities, testLogger()), activities, submissions
}

func seedActivity(t *testing.T, store *memActivityStore, reward int64, active bool) *domain.Activity {
	t.Helper()
	activity := &domain.Activity{
		ID:          "act-" + t.Name(),
		Title:       "Weekly meetup",
		TokenReward: reward,
		Category:    domain.CategoryAttendance,
		IsActive:    active,
	}
	require.NoError(t, store.Create(context.Background(), activity))
	return activity
}

func TestSubmissionCreate_SnapshotsReward(t *testing.T) {
	svc, activities, _ := newSubmissionFixture(t)
	activity := seedActivity(t, activities, 75, true)

	submission, err := svc.Create(context.Background(), testMember, &domain.SubmissionCreateRequest{
		ActivityID: activity.ID,
		ProofText:  "attended on Friday",
		ProofURL:   "https://example.com/photo.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, submission.Status)
	assert.Equal(t, int64(75), submission.TokenReward)
	assert.Equal(t, "Weekly meetup", submission.ActivityTitle)
	assert.Equal(t, testMember, submission.SubmitterIdentity)

	// Later catalog edits do not touch the snapshot.
	newReward := int64(999)
	_, err = activities.Update(context.Background(), activity.ID, &domain.ActivityUpdateRequest{TokenReward: &newReward})
	require.NoError(t, err)

	mine, err := svc.ListMine(context.Background(), testMember)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, int64(75), mine[0].TokenReward)
}

func TestSubmissionCreate_EmptyProof(t *testing.T) {
	svc, activities, _ := newSubmissionFixture(t)
	activity := seedActivity(t, activities, 75, true)

	for _, proof := range []string{"", "   ", "\n\t"} {
		_, err := svc.Create(context.Background(), testMember, &domain.SubmissionCreateRequest{
			ActivityID: activity.ID,
			ProofText:  proof,
		})
		assert.ErrorIs(t, err, domain.ErrEmptyProof, "proof %q", proof)
	}
}

func TestSubmissionCreate_InactiveActivity(t *testing.T) {
	svc, activities, _ := newSubmissionFixture(t)
	activity := seedActivity(t, activities, 75, false)

	_, err := svc.Create(context.Background(), testMember, &domain.SubmissionCreateRequest{
		ActivityID: activity.ID,
		ProofText:  "too late",
	})
	assert.ErrorIs(t, err, domain.ErrActivityNotActive)
}

func TestSubmissionCreate_UnknownActivity(t *testing.T) {
	svc, _, _ := newSubmissionFixture(t)

	_, err := svc.Create(context.Background(), testMember, &domain.SubmissionCreateRequest{
		ActivityID: "missing",
		ProofText:  "proof",
	})
	assert.ErrorIs(t, err, domain.ErrActivityNotActive)
}

func TestSubmissionList_ModeratorGates(t *testing.T) {
	svc, activities, _ := newSubmissionFixture(t)
	activity := seedActivity(t, activities, 10, true)

	_, err := svc.Create(context.Background(), testMember, &domain.SubmissionCreateRequest{
		ActivityID: activity.ID,
		ProofText:  "proof",
	})
	require.NoError(t, err)

	_, err = svc.ListPending(context.Background(), memberSession(testMember))
	assert.ErrorIs(t, err, domain.ErrNotModerator)

	_, err = svc.ListAll(context.Background(), memberSession(testMember), "")
	assert.ErrorIs(t, err, domain.ErrNotModerator)

	pending, err := svc.ListPending(context.Background(), moderatorSession(testModerator))
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
