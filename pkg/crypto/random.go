package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

func GenerateSecureRandomInt(max int64) (int64, error) {
	if max <= 0 {
		return 0, fmt.Errorf("max must be positive, got %d", max)
	}

	var b [8]byte
	_, err := rand.Read(b[:])
	if err != nil {
		return 0, err
	}

	n := binary.BigEndian.Uint64(b[:]) & (1<<63 - 1)
	return int64(n) % max, nil
}

// GenerateSecureFloat64 returns a uniform value in [0, 1).
func GenerateSecureFloat64() (float64, error) {
	var b [8]byte
	_, err := rand.Read(b[:])
	if err != nil {
		return 0, err
	}

	n := binary.BigEndian.Uint64(b[:]) >> 11 // 53 bits of precision
	return float64(n) / float64(1<<53), nil
}

// GenerateTransactionHash returns a 64-character hex string used as a mock
// on-chain transaction reference.
func GenerateTransactionHash() (string, error) {
	var b [32]byte
	_, err := rand.Read(b[:])
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
