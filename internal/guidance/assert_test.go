//go:build !guidancedebug

package guidance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPNUncheckedWhenNotClosing(t *testing.T) {
	var a vec
	assert.NotPanics(t, func() { a = IPN(3.0, Target[float64]{v3(0, 0, 10), v3(0, 0, 1)}) })
	// receding straight out: no line-of-sight rotation
	assert.True(t, a.IsZero())
}
