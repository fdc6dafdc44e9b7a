package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size uint64
		want string
	}{
		{0, "none"},
		{128 << 20, "SDSC"},
		{2 << 30, "SDSC"},
		{2<<30 + 1, "SDHC"},
		{32 << 30, "SDHC"},
		{64 << 30, "SDXC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CardType(tt.size), "size %d", tt.size)
	}
}
