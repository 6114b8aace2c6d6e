package compgraph

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapPreservesOrderAndFlattens(t *testing.T) {
	upstream := newSliceStream([]Row{
		NewRow("text", "a b"),
		NewRow("text", "c"),
	})
	mapped := Map(upstream, Split{Column: "text"})
	rows, err := drain(mapped)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "a", rows[0]["text"].Str())
	require.Equal(t, "b", rows[1]["text"].Str())
	require.Equal(t, "c", rows[2]["text"].Str())
}

func TestMapPurityDoesNotMutateInput(t *testing.T) {
	src := NewRow("text", "HELLO")
	upstream := newSliceStream([]Row{src})
	mapped := Map(upstream, LowerCase{Column: "text"})
	row, err := mapped.Next()
	require.NoError(t, err)
	require.Equal(t, "hello", row["text"].Str())
	require.Equal(t, "HELLO", src["text"].Str())
}

func TestDrainStopsAtEOF(t *testing.T) {
	s := newSliceStream(nil)
	rows, err := drain(s)
	require.NoError(t, err)
	require.Empty(t, rows)

	_, err = s.Next()
	require.ErrorIs(t, err, io.EOF)
}
