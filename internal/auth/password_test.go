package auth

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("expected hash to differ from password")
	}
	if !CheckPassword(hash, "correct horse") {
		t.Error("expected password to match")
	}
	if CheckPassword(hash, "battery staple") {
		t.Error("expected wrong password to fail")
	}
}

func TestGeneratePassword(t *testing.T) {
	a, err := GeneratePassword(16)
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	b, _ := GeneratePassword(16)
	if len(a) != 16 {
		t.Errorf("expected 16 chars, got %d", len(a))
	}
	for _, c := range a {
		if !strings.ContainsRune(passwordCharset, c) {
			t.Errorf("unexpected character %q", c)
		}
	}
	if a == b {
		t.Error("expected distinct passwords")
	}
}
