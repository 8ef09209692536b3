package auth

import "crypto/subtle"

// VerifyAdminKey compares a presented admin API key against the configured
// one in constant time. An empty configured key rejects everything.
func VerifyAdminKey(presented, expected string) bool {
	if expected == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1
}
