package service

import (
	"context"
	"sync"
	"time"

	"club-rewards/internal/domain"
	"club-rewards/pkg/logger"

	"go.uber.org/zap"
)

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func memberSession(wallet string) *domain.Session {
	return &domain.Session{Identity: wallet, IsModerator: false}
}

func moderatorSession(wallet string) *domain.Session {
	return &domain.Session{Identity: wallet, IsModerator: true}
}

// memActivityStore is an in-memory ActivityStore.
type memActivityStore struct {
	mu         sync.Mutex
	activities map[string]*domain.Activity
}

func newMemActivityStore() *memActivityStore {
	return &memActivityStore{activities: make(map[string]*domain.Activity)}
}

func (s *memActivityStore) Create(_ context.Context, activity *domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *activity
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.activities[activity.ID] = &cp
	return nil
}

func (s *memActivityStore) Update(_ context.Context, id string, req *domain.ActivityUpdateRequest) (*domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	activity, ok := s.activities[id]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	if req.Title != nil {
		activity.Title = *req.Title
	}
	if req.Description != nil {
		activity.Description = *req.Description
	}
	if req.TokenReward != nil {
		activity.TokenReward = *req.TokenReward
	}
	if req.Category != nil {
		activity.Category = *req.Category
	}
	if req.IsActive != nil {
		activity.IsActive = *req.IsActive
	}
	activity.UpdatedAt = time.Now()
	cp := *activity
	return &cp, nil
}

func (s *memActivityStore) Deactivate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	activity, ok := s.activities[id]
	if !ok {
		return domain.ErrActivityNotFound
	}
	activity.IsActive = false
	return nil
}

func (s *memActivityStore) GetByID(_ context.Context, id string) (*domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	activity, ok := s.activities[id]
	if !ok {
		return nil, nil
	}
	cp := *activity
	return &cp, nil
}

func (s *memActivityStore) List(_ context.Context, activeOnly bool) ([]domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Activity
	for _, activity := range s.activities {
		if activeOnly && !activity.IsActive {
			continue
		}
		out = append(out, *activity)
	}
	return out, nil
}

// memSubmissionStore is an in-memory SubmissionStore with the same
// compare-and-set review semantics as the Postgres implementation.
type memSubmissionStore struct {
	mu          sync.Mutex
	submissions map[string]*domain.Submission
}

func newMemSubmissionStore() *memSubmissionStore {
	return &memSubmissionStore{submissions: make(map[string]*domain.Submission)}
}

func (s *memSubmissionStore) Create(_ context.Context, submission *domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *submission
	cp.CreatedAt = time.Now()
	s.submissions[submission.ID] = &cp
	return nil
}

func (s *memSubmissionStore) GetByID(_ context.Context, id string) (*domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	submission, ok := s.submissions[id]
	if !ok {
		return nil, nil
	}
	cp := *submission
	return &cp, nil
}

func (s *memSubmissionStore) ListBySubmitter(_ context.Context, identity string) ([]domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Submission
	for _, submission := range s.submissions {
		if submission.SubmitterIdentity == identity {
			out = append(out, *submission)
		}
	}
	return out, nil
}

func (s *memSubmissionStore) ListPending(_ context.Context) ([]domain.Submission, error) {
	return s.listByStatus(domain.StatusPending)
}

func (s *memSubmissionStore) ListAll(_ context.Context, status domain.SubmissionStatus) ([]domain.Submission, error) {
	if status == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		var out []domain.Submission
		for _, submission := range s.submissions {
			out = append(out, *submission)
		}
		return out, nil
	}
	return s.listByStatus(status)
}

func (s *memSubmissionStore) listByStatus(status domain.SubmissionStatus) ([]domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Submission
	for _, submission := range s.submissions {
		if submission.Status == status {
			out = append(out, *submission)
		}
	}
	return out, nil
}

func (s *memSubmissionStore) MarkReviewed(_ context.Context, id string, status domain.SubmissionStatus, reviewer, note string) (*domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	submission, ok := s.submissions[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	if submission.Status != domain.StatusPending {
		return nil, domain.ErrAlreadyReviewed
	}
	now := time.Now()
	submission.Status = status
	submission.ReviewerIdentity = reviewer
	submission.ReviewNote = note
	submission.ReviewedAt = &now
	cp := *submission
	return &cp, nil
}

// memDistributionStore is an in-memory DistributionStore. It shares the
// submission store so RecordSettlement can flip the submission state the way
// the transactional Postgres implementation does.
type memDistributionStore struct {
	mu            sync.Mutex
	subs          *memSubmissionStore
	distributions map[string]*domain.Distribution
	holds         map[string]*domain.SettlementHold
}

func newMemDistributionStore(subs *memSubmissionStore) *memDistributionStore {
	return &memDistributionStore{
		subs:          subs,
		distributions: make(map[string]*domain.Distribution),
		holds:         make(map[string]*domain.SettlementHold),
	}
}

func (s *memDistributionStore) RecordSettlement(_ context.Context, dist *domain.Distribution, reviewer, note string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs.mu.Lock()
	defer s.subs.mu.Unlock()

	// Same as the transactional Postgres implementation: a submission that
	// is neither pending nor already approved aborts the whole write.
	submission, ok := s.subs.submissions[dist.SubmissionID]
	if ok && submission.Status != domain.StatusPending && submission.Status != domain.StatusApproved {
		return false, domain.ErrAlreadyReviewed
	}

	created := false
	if _, exists := s.distributions[dist.SubmissionID]; !exists {
		cp := *dist
		cp.CreatedAt = time.Now()
		s.distributions[dist.SubmissionID] = &cp
		created = true
	}

	if ok && submission.Status == domain.StatusPending {
		now := time.Now()
		submission.Status = domain.StatusApproved
		submission.ReviewerIdentity = reviewer
		submission.ReviewNote = note
		submission.ReviewedAt = &now
	}

	return created, nil
}

func (s *memDistributionStore) GetBySubmission(_ context.Context, submissionID string) (*domain.Distribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dist, ok := s.distributions[submissionID]
	if !ok {
		return nil, nil
	}
	cp := *dist
	return &cp, nil
}

func (s *memDistributionStore) List(_ context.Context) ([]domain.Distribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Distribution
	for _, dist := range s.distributions {
		out = append(out, *dist)
	}
	return out, nil
}

func (s *memDistributionStore) CreateHold(_ context.Context, submissionID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holds[submissionID] = &domain.SettlementHold{
		SubmissionID: submissionID,
		Reason:       reason,
		CreatedAt:    time.Now(),
	}
	return nil
}

func (s *memDistributionStore) ActiveHold(_ context.Context, submissionID string) (*domain.SettlementHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hold, ok := s.holds[submissionID]
	if !ok || hold.ResolvedAt != nil {
		return nil, nil
	}
	cp := *hold
	return &cp, nil
}

func (s *memDistributionStore) ResolveHold(_ context.Context, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hold, ok := s.holds[submissionID]; ok {
		now := time.Now()
		hold.ResolvedAt = &now
	}
	return nil
}

// memModeratorStore is an in-memory ModeratorStore.
type memModeratorStore struct {
	mu      sync.Mutex
	wallets map[string]*domain.Moderator
}

func newMemModeratorStore(wallets ...string) *memModeratorStore {
	s := &memModeratorStore{wallets: make(map[string]*domain.Moderator)}
	for _, w := range wallets {
		s.wallets[w] = &domain.Moderator{ID: w, WalletAddress: w, CreatedAt: time.Now()}
	}
	return s
}

func (s *memModeratorStore) IsModerator(_ context.Context, wallet string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.wallets[wallet]
	return ok, nil
}

func (s *memModeratorStore) List(_ context.Context) ([]domain.Moderator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Moderator
	for _, m := range s.wallets {
		out = append(out, *m)
	}
	return out, nil
}

func (s *memModeratorStore) Add(_ context.Context, moderator *domain.Moderator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.wallets[moderator.WalletAddress]; exists {
		return domain.ErrModeratorExists
	}
	cp := *moderator
	cp.CreatedAt = time.Now()
	s.wallets[moderator.WalletAddress] = &cp
	return nil
}

func (s *memModeratorStore) Remove(_ context.Context, wallet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.wallets[wallet]; !exists {
		return domain.ErrModeratorNotFound
	}
	delete(s.wallets, wallet)
	return nil
}

// stubTransferError lets tests control ambiguity classification.
type stubTransferError struct {
	msg       string
	ambiguous bool
}

func (e *stubTransferError) Error() string   { return e.msg }
func (e *stubTransferError) Ambiguous() bool { return e.ambiguous }

// stubExecutor is a scripted TransferExecutor.
type stubExecutor struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, from, to string, amount int64) (string, error)
}

func (e *stubExecutor) Execute(ctx context.Context, from, to string, amount int64) (string, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.fn != nil {
		return e.fn(ctx, from, to, amount)
	}
	return "sig-default", nil
}

func (e *stubExecutor) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// stubVerifier accepts everything unless told otherwise.
type stubVerifier struct {
	reject bool
}

func (v *stubVerifier) Verify(identity, message, signature string) bool {
	return !v.reject
}
