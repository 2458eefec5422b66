// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

const (
	// Confirmation codes are drawn from this fixed numeric range.
	ConfirmationCodeMin = 1000
	ConfirmationCodeMax = 1000000
)

func GenerateConfirmationCode() (string, error) {
	span := big.NewInt(ConfirmationCodeMax - ConfirmationCodeMin + 1)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}

	return fmt.Sprintf("%d", n.Int64()+ConfirmationCodeMin), nil
}

func CompareCode(submitted, stored string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) == 1
}
