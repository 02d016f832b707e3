package security

import "testing"

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(4)
	hash, err := h.Hash("123456")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "123456" {
		t.Fatal("hash equals plaintext")
	}
	if err := h.Compare(hash, "123456"); err != nil {
		t.Errorf("Compare matching code: %v", err)
	}
	if err := h.Compare(hash, "654321"); err != ErrCodeMismatch {
		t.Errorf("Compare wrong code: want ErrCodeMismatch, got %v", err)
	}
}

func TestHasher_MalformedHash(t *testing.T) {
	h := NewHasher(4)
	if err := h.Compare("not-a-bcrypt-hash", "123456"); err == nil || err == ErrCodeMismatch {
		t.Errorf("Compare malformed hash: want bcrypt error, got %v", err)
	}
}

func TestNewHasher_ClampsCost(t *testing.T) {
	if got := NewHasher(1).Cost; got != 4 {
		t.Errorf("NewHasher(1).Cost = %d, want 4", got)
	}
	if got := NewHasher(99).Cost; got != 31 {
		t.Errorf("NewHasher(99).Cost = %d, want 31", got)
	}
	if got := NewHasher(0).Cost; got != 10 {
		t.Errorf("NewHasher(0).Cost = %d, want 10", got)
	}
}
