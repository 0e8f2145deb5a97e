package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Secret@123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "Secret@123" {
		t.Fatal("hash should not equal the plaintext")
	}
	if !CheckPassword(hash, "Secret@123") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "secret@123") {
		t.Fatal("wrong password accepted")
	}
}

func TestValidatePasswordStrong(t *testing.T) {
	tests := []struct {
		name string
		pw   string
		ok   bool
	}{
		{"valid", "Abcdef1!", true},
		{"too short", "Ab1!", false},
		{"no lowercase", "ABCDEF1!", false},
		{"no uppercase", "abcdef1!", false},
		{"no digit", "Abcdefg!", false},
		{"no special", "Abcdefg1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrong(tt.pw)
			if tt.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
