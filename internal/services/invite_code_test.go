package services

import (
	"strings"
	"testing"
)

func TestGenerateInviteCode_Length(t *testing.T) {
	for _, n := range []int{1, 8, 16} {
		code, err := generateInviteCode(n)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != n {
			t.Fatalf("expected length %d, got %q", n, code)
		}
	}
}

func TestGenerateInviteCode_Alphabet(t *testing.T) {
	// The alphabet drops 0/O/1/I so codes survive being read aloud.
	for _, c := range "0O1I" {
		if strings.ContainsRune(inviteCodeAlphabet, c) {
			t.Fatalf("alphabet contains ambiguous character %q", c)
		}
	}

	for i := 0; i < 100; i++ {
		code, err := generateInviteCode(DefaultInviteCodeLength)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, c := range code {
			if !strings.ContainsRune(inviteCodeAlphabet, c) {
				t.Fatalf("code %q contains %q outside the alphabet", code, c)
			}
		}
	}
}

func TestGenerateInviteCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateInviteCode(DefaultInviteCodeLength)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen[code] = true
	}
	// 50 draws from a 32^8 space colliding would mean the generator is broken.
	if len(seen) != 50 {
		t.Fatalf("expected 50 distinct codes, got %d", len(seen))
	}
}
