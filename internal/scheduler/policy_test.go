package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRestPolicy(t *testing.T) {
	pick := DefaultRestPolicy()
	for i := 0; i < 3; i++ {
		assert.Equal(t, 11.0, pick())
	}
}

func TestForcedRestPolicy(t *testing.T) {
	pick := ForcedRestPolicy(map[int]bool{2: true, 4: true})
	got := []float64{pick(), pick(), pick(), pick(), pick()}
	assert.Equal(t, []float64{11, 9, 11, 9, 11}, got)

	// A fresh policy restarts its counter
	again := ForcedRestPolicy(map[int]bool{1: true})
	assert.Equal(t, 9.0, again())
	assert.Equal(t, 11.0, again())
}

func TestForcedRestPolicy_NilSet(t *testing.T) {
	pick := ForcedRestPolicy(nil)
	assert.Equal(t, 11.0, pick())
}
