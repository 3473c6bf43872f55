package domain

import "time"

// Session represents a server-issued, time-bounded credential for a wallet.
// It is never mutated; re-authentication reissues an equivalent session.
type Session struct {
	Identity    string    `json:"wallet_address"`
	IsModerator bool      `json:"is_moderator"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Token       string    `json:"-"`
}

// LoginRequest is the wallet-signature login payload.
type LoginRequest struct {
	WalletAddress string `json:"wallet_address"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
}

// LoginResponse is returned after successful authentication.
type LoginResponse struct {
	Token         string `json:"token"`
	WalletAddress string `json:"wallet_address"`
	IsModerator   bool   `json:"is_moderator"`
}
