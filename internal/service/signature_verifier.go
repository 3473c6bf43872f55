package service

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

// Ed25519Verifier checks wallet signatures. Identities are base58-encoded
// ed25519 public keys and signatures are base58-encoded 64-byte signatures,
// the format produced by Solana wallet adapters.
type Ed25519Verifier struct{}

// NewEd25519Verifier creates a new signature verifier
func NewEd25519Verifier() *Ed25519Verifier {
	return &Ed25519Verifier{}
}

// Verify reports whether identity signed message. Any malformed input is
// treated as an invalid signature.
func (v *Ed25519Verifier) Verify(identity, message, signature string) bool {
	if identity == "" || message == "" || signature == "" {
		return false
	}

	pubKey, err := base58.Decode(identity)
	if err != nil || len(pubKey) != ed25519.PublicKeySize {
		return false
	}

	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(pubKey), []byte(message), sig)
}
