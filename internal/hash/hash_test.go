package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCheck(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	hashed, err := h.HashPassword("pw1")
	require.NoError(t, err)

	assert.NotEqual(t, "pw1", hashed)
	assert.True(t, h.CheckPassword(hashed, "pw1"))

	for _, wrong := range []string{"", "pw", "pw1 ", "PW1", "pw2", "pw1pw1"} {
		assert.False(t, h.CheckPassword(hashed, wrong), "password %q must not match", wrong)
	}
}

func TestHasher_SaltIsUniquePerCall(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	a, err := h.HashPassword("same")
	require.NoError(t, err)
	b, err := h.HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestNewHasher_CostBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cost int
		want int
	}{
		{name: "below min", cost: 1, want: bcrypt.DefaultCost},
		{name: "above max", cost: 99, want: bcrypt.DefaultCost},
		{name: "min", cost: bcrypt.MinCost, want: bcrypt.MinCost},
		{name: "custom", cost: 12, want: 12},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NewHasher(tt.cost).Cost)
		})
	}
}

func TestHasher_CheckPassword_GarbageHash(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	assert.False(t, h.CheckPassword("not-a-bcrypt-hash", "pw"))
	h.Burn("pw")
}
