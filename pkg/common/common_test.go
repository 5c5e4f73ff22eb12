package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextIDIncreasing(t *testing.T) {
	prev := NextID()
	for i := 0; i < 1000; i++ {
		id := NextID()
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$750,000.00", FormatMoney(750000))
	assert.Equal(t, "$5.50", FormatMoney(5.5))
	assert.Equal(t, "-$1,200.00", FormatMoney(-1200))
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "2,200", FormatInt(2200))
	assert.Equal(t, "12", FormatInt(12))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "85%", FormatPercent(0.85))
}
