package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateOpaqueToken returns a cryptographically random alphanumeric
// string of the given length, used for authorization codes, access and
// refresh tokens.
func GenerateOpaqueToken(length int) (string, error) {
	chars := make([]byte, length)
	max := big.NewInt(int64(len(tokenAlphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		chars[i] = tokenAlphabet[num.Int64()]
	}

	return string(chars), nil
}

// GenerateOTPCode returns a uniformly random six-digit code in
// the range 100000-999999.
func GenerateOTPCode() (string, error) {
	num, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}
	return fmt.Sprintf("%06d", num.Int64()+100000), nil
}
