package service

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedMessage(t *testing.T, message string) (wallet, signature string) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return base58.Encode(pub), base58.Encode(ed25519.Sign(priv, []byte(message)))
}

func TestVerify_ValidSignature(t *testing.T) {
	verifier := NewEd25519Verifier()

	message := SignInMessage("ignored", time.Now())
	wallet, signature := signedMessage(t, message)

	assert.True(t, verifier.Verify(wallet, message, signature))
}

func TestVerify_TamperedMessage(t *testing.T) {
	verifier := NewEd25519Verifier()

	wallet, signature := signedMessage(t, "original message")

	assert.False(t, verifier.Verify(wallet, "tampered message", signature))
}

func TestVerify_WrongSigner(t *testing.T) {
	verifier := NewEd25519Verifier()

	message := "shared message"
	_, signature := signedMessage(t, message)
	otherWallet, _ := signedMessage(t, message)

	assert.False(t, verifier.Verify(otherWallet, message, signature))
}

func TestVerify_MalformedInput(t *testing.T) {
	verifier := NewEd25519Verifier()
	wallet, signature := signedMessage(t, "msg")

	tests := []struct {
		name      string
		identity  string
		message   string
		signature string
	}{
		{"empty identity", "", "msg", signature},
		{"empty message", wallet, "", signature},
		{"empty signature", wallet, "msg", ""},
		{"identity not base58", "0OIl", "msg", signature},
		{"identity wrong length", base58.Encode([]byte("short")), "msg", signature},
		{"signature not base58", wallet, "msg", "0OIl"},
		{"signature wrong length", wallet, "msg", base58.Encode([]byte("short"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, verifier.Verify(tt.identity, tt.message, tt.signature))
		})
	}
}
