package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword("s3cret-pass", hash) {
		t.Error("CheckPassword() with correct password = false")
	}
	if CheckPassword("wrong-pass", hash) {
		t.Error("CheckPassword() with wrong password = true")
	}
}
