package compgraph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortOrdersAscendingByKeys(t *testing.T) {
	upstream := newSliceStream([]Row{
		NewRow("n", 3),
		NewRow("n", 1),
		NewRow("n", 2),
	})
	sorted := Sort(upstream, []string{"n"}, SortOptions{})
	rows, err := drain(sorted)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, int64(1), rows[0]["n"].Int())
	require.Equal(t, int64(2), rows[1]["n"].Int())
	require.Equal(t, int64(3), rows[2]["n"].Int())
}

func TestSortIsStableOnTies(t *testing.T) {
	upstream := newSliceStream([]Row{
		NewRow("k", 1, "tag", "first"),
		NewRow("k", 1, "tag", "second"),
		NewRow("k", 0, "tag", "zeroth"),
	})
	sorted := Sort(upstream, []string{"k"}, SortOptions{})
	rows, err := drain(sorted)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "zeroth", rows[0]["tag"].Str())
	require.Equal(t, "first", rows[1]["tag"].Str())
	require.Equal(t, "second", rows[2]["tag"].Str())
}

func TestSortIsIdempotent(t *testing.T) {
	rows := []Row{NewRow("n", 2), NewRow("n", 1), NewRow("n", 3)}
	once, err := drain(Sort(newSliceStream(rows), []string{"n"}, SortOptions{}))
	require.NoError(t, err)
	twice, err := drain(Sort(newSliceStream(once), []string{"n"}, SortOptions{}))
	require.NoError(t, err)
	require.Equal(t, once, twice)
}

// TestSortSpillsAndMerges forces a tiny chunk budget so every row spills to
// its own bbolt-backed chunk, exercising the external-sort path (spec
// §4.4) rather than the in-memory fast path.
func TestSortSpillsAndMerges(t *testing.T) {
	dir := t.TempDir()
	var rows []Row
	for i := 20; i > 0; i-- {
		rows = append(rows, NewRow("n", int64(i)))
	}
	sorted := Sort(newSliceStream(rows), []string{"n"}, SortOptions{
		ChunkBytes: 1,
		TempDir:    dir,
	})
	out, err := drain(sorted)
	require.NoError(t, err)
	require.Len(t, out, 20)
	for i, row := range out {
		require.Equal(t, int64(i+1), row["n"].Int())
	}
	require.NoError(t, sorted.Close())
}
