package session

import "github.com/angaddubey10/oauth-demo/internal/utils"

// GenerateID returns an unguessable session identifier with 256 bits of
// entropy.
func GenerateID() string {
	return utils.RandomString(32)
}
