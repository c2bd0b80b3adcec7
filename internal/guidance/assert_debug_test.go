//go:build guidancedebug

package guidance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPNPanicsWhenNotClosing(t *testing.T) {
	assert.PanicsWithValue(t,
		"guidance: IPN on a target that is not closing (p={0 0 10} v={0 0 1})",
		func() { IPN(3.0, Target[float64]{v3(0, 0, 10), v3(0, 0, 1)}) })

	assert.NotPanics(t, func() { IPN(3.0, Target[float64]{v3(0, 0, 10), v3(0, 1, -1)}) })
}
