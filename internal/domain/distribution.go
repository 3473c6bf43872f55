package domain

import "time"

// Distribution records a completed token transfer for a settled submission.
// SubmissionID is unique: at most one distribution may ever exist per
// submission, which is the anti-double-payout invariant.
type Distribution struct {
	ID            string    `json:"id"`
	SubmissionID  string    `json:"submission_id"`
	FromIdentity  string    `json:"from_wallet"`
	ToIdentity    string    `json:"to_wallet"`
	Amount        int64     `json:"amount"`
	TransferProof string    `json:"tx_signature"`
	CreatedAt     time.Time `json:"created_at"`
}

// DistributionRecordRequest records a transfer observed externally, used for
// manual reconciliation of ambiguous settlements.
type DistributionRecordRequest struct {
	SubmissionID  string `json:"submission_id"`
	FromIdentity  string `json:"from_wallet"`
	ToIdentity    string `json:"to_wallet"`
	Amount        int64  `json:"amount"`
	TransferProof string `json:"tx_signature"`
}

// SettlementHold marks a submission whose transfer outcome is ambiguous
// (for example a confirmation timeout). While unresolved it blocks further
// automatic settlement attempts on that submission.
type SettlementHold struct {
	SubmissionID string     `json:"submission_id"`
	Reason       string     `json:"reason"`
	CreatedAt    time.Time  `json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// BalanceResponse is the chain balance proxy response.
type BalanceResponse struct {
	WalletAddress string  `json:"wallet_address"`
	Balance       float64 `json:"balance"`
	Mint          string  `json:"mint"`
}
