package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewBcrypt_ClampsCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cost int
		want int
	}{
		{"zero uses default", 0, bcrypt.DefaultCost},
		{"below minimum uses default", 2, bcrypt.DefaultCost},
		{"explicit", 12, 12},
		{"above maximum", 99, bcrypt.MaxCost},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NewBcrypt(tt.cost).cost)
		})
	}
}

func TestBcrypt_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewBcrypt(bcrypt.MinCost)

	first, err := h.Hash("correct horse")
	require.NoError(t, err)
	second, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", first, "plaintext must not be stored")
	assert.NotEqual(t, first, second, "each hash must use a fresh salt")
	assert.True(t, h.Verify("correct horse", first))
	assert.True(t, h.Verify("correct horse", second))
	assert.False(t, h.Verify("wrong horse", first))
	assert.False(t, h.Verify("correct horse", "not-a-bcrypt-hash"))
}

func TestBcrypt_HashTooLong(t *testing.T) {
	t.Parallel()

	_, err := NewBcrypt(bcrypt.MinCost).Hash(strings.Repeat("x", 73))

	assert.ErrorIs(t, err, ErrTooLong)
}
