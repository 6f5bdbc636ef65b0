package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	// テストの高速化のため最小コストを使用する
	hasher := NewPasswordHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash returned unexpected error: %v", err)
	}
	if digest == "" {
		t.Fatal("expected non-empty digest")
	}

	match, err := hasher.Verify("correct horse battery staple", digest)
	if err != nil {
		t.Fatalf("Verify returned unexpected error: %v", err)
	}
	if !match {
		t.Error("Verify = false for the original plaintext, want true")
	}
}

// 同一平文を二度ハッシュ化するとソルトにより異なるダイジェストが生成され、
// どちらも元の平文で検証できることを検証する。
func TestPasswordHasher_SaltedDigestsDiffer(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("secret")
	if err != nil {
		t.Fatalf("first Hash failed: %v", err)
	}
	second, err := hasher.Hash("secret")
	if err != nil {
		t.Fatalf("second Hash failed: %v", err)
	}

	if first == second {
		t.Error("two digests of the same plaintext are equal, want different salts")
	}

	for _, digest := range []string{first, second} {
		match, err := hasher.Verify("secret", digest)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if !match {
			t.Errorf("Verify = false for digest %q, want true", digest)
		}
	}
}

func TestPasswordHasher_WrongPassword_IsMismatchNotError(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("right")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	match, err := hasher.Verify("wrong", digest)
	if err != nil {
		t.Fatalf("mismatch must not be an error, got: %v", err)
	}
	if match {
		t.Error("Verify = true for wrong password, want false")
	}
}

// ダイジェスト自体が不正な場合はパスワード不一致と区別してエラーを返すことを検証する。
func TestPasswordHasher_MalformedDigest_IsError(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	match, err := hasher.Verify("anything", "not-a-bcrypt-digest")
	if err == nil {
		t.Error("expected error for malformed digest, got nil")
	}
	if match {
		t.Error("Verify = true for malformed digest, want false")
	}
}

func TestNewPasswordHasher_DefaultsCost(t *testing.T) {
	hasher := NewPasswordHasher(0)
	if hasher.cost != DefaultBcryptCost {
		t.Errorf("cost = %d, want %d", hasher.cost, DefaultBcryptCost)
	}
}
