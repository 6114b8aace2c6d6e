package compgraph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoinInnerColumnCollision(t *testing.T) {
	left := newSliceStream([]Row{NewRow("k", 1, "v", 10)})
	right := newSliceStream([]Row{NewRow("k", 1, "v", 20)})

	joined := Join(InnerJoiner{}, []string{"k"}, left, right)
	rows, err := drain(joined)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(1), rows[0]["k"].Int())
	require.Equal(t, int64(10), rows[0]["v_1"].Int())
	require.Equal(t, int64(20), rows[0]["v_2"].Int())
	_, hasPlainV := rows[0]["v"]
	require.False(t, hasPlainV)
}

func TestJoinOuterOneSided(t *testing.T) {
	left := newSliceStream([]Row{
		NewRow("k", 1, "a", 10),
		NewRow("k", 3, "a", 30),
	})
	right := newSliceStream([]Row{
		NewRow("k", 2, "b", 20),
		NewRow("k", 3, "b", 33),
	})

	joined := Join(OuterJoiner{}, []string{"k"}, left, right)
	rows, err := drain(joined)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, int64(1), rows[0]["k"].Int())
	require.Equal(t, int64(10), rows[0]["a"].Int())
	_, hasB0 := rows[0]["b"]
	require.False(t, hasB0)

	require.Equal(t, int64(2), rows[1]["k"].Int())
	require.Equal(t, int64(20), rows[1]["b"].Int())
	_, hasA1 := rows[1]["a"]
	require.False(t, hasA1)

	require.Equal(t, int64(3), rows[2]["k"].Int())
	require.Equal(t, int64(30), rows[2]["a"].Int())
	require.Equal(t, int64(33), rows[2]["b"].Int())
}

func TestJoinLeftDropsRightOnly(t *testing.T) {
	left := newSliceStream([]Row{NewRow("k", 1, "a", 10)})
	right := newSliceStream([]Row{NewRow("k", 2, "b", 20)})

	joined := Join(LeftJoiner{}, []string{"k"}, left, right)
	rows, err := drain(joined)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(1), rows[0]["k"].Int())
	_, hasB := rows[0]["b"]
	require.False(t, hasB)
}

func TestJoinRightDropsLeftOnly(t *testing.T) {
	left := newSliceStream([]Row{NewRow("k", 1, "a", 10)})
	right := newSliceStream([]Row{NewRow("k", 2, "b", 20)})

	joined := Join(RightJoiner{}, []string{"k"}, left, right)
	rows, err := drain(joined)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(2), rows[0]["k"].Int())
	_, hasA := rows[0]["a"]
	require.False(t, hasA)
}

func TestJoinInnerSubsetOfLeftSubsetOfOuter(t *testing.T) {
	left := newSliceStream([]Row{
		NewRow("k", 1, "a", 10),
		NewRow("k", 3, "a", 30),
	})
	right := newSliceStream([]Row{
		NewRow("k", 2, "b", 20),
		NewRow("k", 3, "b", 33),
	})
	inner, err := drain(Join(InnerJoiner{}, []string{"k"}, newSliceStream([]Row{
		NewRow("k", 1, "a", 10), NewRow("k", 3, "a", 30),
	}), newSliceStream([]Row{
		NewRow("k", 2, "b", 20), NewRow("k", 3, "b", 33),
	})))
	require.NoError(t, err)
	require.Len(t, inner, 1)

	leftJoin, err := drain(Join(LeftJoiner{}, []string{"k"}, left, right))
	require.NoError(t, err)
	require.Len(t, leftJoin, 2)

	outer, err := drain(Join(OuterJoiner{}, []string{"k"},
		newSliceStream([]Row{NewRow("k", 1, "a", 10), NewRow("k", 3, "a", 30)}),
		newSliceStream([]Row{NewRow("k", 2, "b", 20), NewRow("k", 3, "b", 33)})))
	require.NoError(t, err)
	require.Len(t, outer, 3)
}
