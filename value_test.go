package compgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueTotalOrder(t *testing.T) {
	ordered := []Value{
		Null(),
		Bool(false),
		Bool(true),
		Int(1),
		Float(1.5),
		Int(2),
		String("a"),
		String("b"),
		Seq([]Value{Int(1)}),
		Seq([]Value{Int(1), Int(2)}),
		RowValue(Row{"a": Int(1)}),
	}
	for i := 1; i < len(ordered); i++ {
		require.Truef(t, compareValues(ordered[i-1], ordered[i]) < 0,
			"expected %v < %v", ordered[i-1], ordered[i])
		require.Truef(t, compareValues(ordered[i], ordered[i-1]) > 0,
			"expected %v > %v", ordered[i], ordered[i-1])
	}
}

func TestValueIntFloatCompareNumerically(t *testing.T) {
	assert.Equal(t, 0, compareValues(Int(3), Float(3.0)))
	assert.True(t, compareValues(Int(2), Float(2.5)) < 0)
}

func TestValueEqualStructural(t *testing.T) {
	a := RowValue(Row{"x": Int(1), "y": String("z")})
	b := RowValue(Row{"y": String("z"), "x": Int(1)})
	assert.True(t, a.Equal(b))

	c := Seq([]Value{Int(1), Int(2)})
	d := Seq([]Value{Int(1), Int(2)})
	assert.True(t, c.Equal(d))
	assert.False(t, c.Equal(Seq([]Value{Int(1)})))
}
