package domain

import "time"

// Moderator is an entry in the moderator roster. The roster is consulted at
// session issuance, never cached beyond the session TTL, so revocation takes
// effect on the next authentication.
type Moderator struct {
	ID            string    `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
}

// ModeratorAddRequest adds a wallet to the roster.
type ModeratorAddRequest struct {
	WalletAddress string `json:"wallet_address"`
	Name          string `json:"name"`
}

// ModeratorCheckResponse echoes the caller's moderator claim.
type ModeratorCheckResponse struct {
	WalletAddress string `json:"wallet_address"`
	IsModerator   bool   `json:"is_moderator"`
}
