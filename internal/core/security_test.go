// AngelaMos | 2026
// security_test.go

package core

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfirmationCode(t *testing.T) {
	for range 100 {
		code, err := GenerateConfirmationCode()
		require.NoError(t, err)

		n, err := strconv.Atoi(code)
		require.NoError(t, err, "code must be numeric: %q", code)

		assert.GreaterOrEqual(t, n, ConfirmationCodeMin)
		assert.LessOrEqual(t, n, ConfirmationCodeMax)
	}
}

func TestCompareCode(t *testing.T) {
	tests := []struct {
		name      string
		submitted string
		stored    string
		want      bool
	}{
		{"match", "123456", "123456", true},
		{"mismatch", "123456", "654321", false},
		{"empty stored never matches", "", "", false},
		{"empty submitted against stored", "", "123456", false},
		{"leading zeros are significant", "01234", "1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareCode(tt.submitted, tt.stored))
		})
	}
}
