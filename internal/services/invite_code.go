package services

import (
	"crypto/rand"
	"fmt"
)

// Invite codes are short enough to read over the phone. The alphabet skips
// the lookalikes 0/O, 1/I and L; its length is 32 so a byte modulo the
// alphabet size is unbiased.
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateInviteCode(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}
	code := make([]byte, length)
	for i, b := range bytes {
		code[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(code), nil
}
