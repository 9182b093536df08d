package auth

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/angaddubey10/oauth-demo/internal/utils"
)

// GenerateCodeVerifier returns a fresh random PKCE code verifier.
func GenerateCodeVerifier() string {
	return utils.RandomString(32)
}

// ComputeS256Challenge derives the S256 code challenge for a verifier:
// the unpadded base64url encoding of its SHA-256 digest.
func ComputeS256Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
