package crypto

import "testing"

func TestGenerateSecureRandomInt(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n, err := GenerateSecureRandomInt(9)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n < 0 || n >= 9 {
			t.Errorf("value %d out of range [0, 9)", n)
		}
	}
}

func TestGenerateSecureRandomIntRejectsNonPositiveMax(t *testing.T) {
	for _, max := range []int64{0, -1} {
		if _, err := GenerateSecureRandomInt(max); err == nil {
			t.Errorf("expected error for max %d", max)
		}
	}
}

func TestGenerateSecureFloat64(t *testing.T) {
	for i := 0; i < 1000; i++ {
		f, err := GenerateSecureFloat64()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f < 0 || f >= 1 {
			t.Errorf("value %f out of range [0, 1)", f)
		}
	}
}

func TestGenerateTransactionHash(t *testing.T) {
	h1, err := GenerateTransactionHash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h1) != 64 {
		t.Errorf("expected 64-character hash, got %d", len(h1))
	}

	h2, _ := GenerateTransactionHash()
	if h1 == h2 {
		t.Error("two generated hashes should not collide")
	}
}
