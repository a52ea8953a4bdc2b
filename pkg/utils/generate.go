package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// ==================== OTP ====================

// GenerateOTP returns a numeric code of the given length without a leading zero.
// A 6 digit code therefore falls in 100000..999999.
func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}

	low := pow10(length - 1)
	span := new(big.Int).Sub(pow10(length), low)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}

	return n.Add(n, low).String()
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// ==================== PARSING ====================

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseID parses a positive integer path parameter.
func ParseID(value string) (int64, bool) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
