package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"club-rewards/internal/domain"
	"club-rewards/pkg/logger"
)

// TransferError classifies a failed transfer execution. An ambiguous error
// means the transfer may have been accepted by the chain after the request
// was sent; the caller must not retry it automatically.
type TransferError struct {
	msg       string
	ambiguous bool
}

func (e *TransferError) Error() string {
	return e.msg
}

// Ambiguous reports whether the transfer outcome is unknown.
func (e *TransferError) Ambiguous() bool {
	return e.ambiguous
}

func rejected(format string, args ...interface{}) *TransferError {
	return &TransferError{msg: fmt.Sprintf(format, args...)}
}

func ambiguous(format string, args ...interface{}) *TransferError {
	return &TransferError{msg: fmt.Sprintf(format, args...), ambiguous: true}
}

// Client talks to the token custody signer and the Solana RPC endpoint.
// It owns transaction construction and signing; this service only consumes
// the execute/balance capabilities.
type Client struct {
	rpcURL      string
	transferURL string
	tokenMint   string
	httpClient  *http.Client
	logger      *logger.Logger
}

// NewClient creates a new chain client
func NewClient(rpcURL, transferURL, tokenMint string, logger *logger.Logger) *Client {
	return &Client{
		rpcURL:      rpcURL,
		transferURL: transferURL,
		tokenMint:   tokenMint,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
		logger: logger,
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Execute asks the custody signer to build, sign, send and confirm an SPL
// token transfer. Returns the confirmed transaction signature as proof.
func (c *Client) Execute(ctx context.Context, from, to string, amount int64) (string, error) {
	if c.transferURL == "" {
		return "", rejected("transfer service not configured")
	}

	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "transferToken",
		Params: []interface{}{
			map[string]interface{}{
				"from":   from,
				"to":     to,
				"amount": amount,
				"mint":   c.tokenMint,
			},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", rejected("failed to encode transfer request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.transferURL, bytes.NewReader(payload))
	if err != nil {
		return "", rejected("failed to create transfer request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.WithFields(map[string]interface{}{
		"to":     to,
		"amount": amount,
	}).Info("Executing token transfer")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A deadline or cancellation after the request was written means the
		// signer may have broadcast the transaction already.
		if ctx.Err() != nil {
			return "", ambiguous("transfer confirmation interrupted: %v", ctx.Err())
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return "", ambiguous("transfer request timed out: %v", err)
		}
		return "", rejected("failed to reach transfer service: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The signer may have sent the transaction before failing.
		return "", ambiguous("transfer service returned status %d", resp.StatusCode)
	}

	var result struct {
		Result struct {
			Signature string `json:"signature"`
		} `json:"result"`
		Error *rpcError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", ambiguous("failed to decode transfer response: %v", err)
	}

	if result.Error != nil {
		// An explicit RPC error means the transfer was rejected before
		// submission; no funds moved.
		return "", rejected("transfer rejected: %s (code %d)", result.Error.Message, result.Error.Code)
	}

	if result.Result.Signature == "" {
		return "", ambiguous("transfer service returned no signature")
	}

	c.logger.WithField("tx_signature", result.Result.Signature).Info("Token transfer confirmed")
	return result.Result.Signature, nil
}

// Balance fetches the SPL token balance for a wallet via the Solana RPC
// getTokenAccountsByOwner call.
func (c *Client) Balance(ctx context.Context, wallet string) (*domain.BalanceResponse, error) {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getTokenAccountsByOwner",
		Params: []interface{}{
			wallet,
			map[string]string{"mint": c.tokenMint},
			map[string]string{"encoding": "jsonParsed"},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode balance request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create balance request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Solana RPC: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Result struct {
			Value []struct {
				Account struct {
					Data struct {
						Parsed struct {
							Info struct {
								TokenAmount struct {
									UIAmount *float64 `json:"uiAmount"`
								} `json:"tokenAmount"`
							} `json:"info"`
						} `json:"parsed"`
					} `json:"data"`
				} `json:"account"`
			} `json:"value"`
		} `json:"result"`
		Error *rpcError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode balance response: %w", err)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("solana RPC error: %s (code %d)", result.Error.Message, result.Error.Code)
	}

	balance := &domain.BalanceResponse{
		WalletAddress: wallet,
		Mint:          c.tokenMint,
	}

	// A wallet without a token account simply has a zero balance.
	if len(result.Result.Value) > 0 {
		if ui := result.Result.Value[0].Account.Data.Parsed.Info.TokenAmount.UIAmount; ui != nil {
			balance.Balance = *ui
		}
	}

	return balance, nil
}
