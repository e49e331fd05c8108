package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPIN returns the hex SHA-256 of a PIN, the format stored in
// AuthPolicy.AdminPINHash.
func HashPIN(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

// VerifyPIN hashes the entered PIN and compares it to the stored hash in
// constant time. An empty stored hash always rejects, for any entered PIN:
// an unset policy must not behave like an open door.
func VerifyPIN(entered, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	got := HashPIN(entered)
	return subtle.ConstantTimeCompare([]byte(got), []byte(storedHash)) == 1
}
