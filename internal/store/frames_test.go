package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/panelstudy/internal/dataset"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	f := dataset.New(3)
	require.NoError(t, f.AddColumn("id", dataset.KindInt, []float64{1, 1, 2}))
	require.NoError(t, f.AddColumn("t", dataset.KindInt, []float64{1, 2, 1}))
	require.NoError(t, f.AddColumn("x", dataset.KindDouble, []float64{0, dataset.Missing, 2.5}))
	require.NoError(t, f.AddColumn("ev_7_1_0", dataset.KindByte, []float64{1, 0, 0}))
	require.NoError(t, f.SetColumnLabel("ev_7_1_0", "ev s=7 k=1 l=0"))
	require.NoError(t, f.SetValueLabel("id", 1, "alpha"))
	require.NoError(t, f.SetValueLabel("id", 2, "beta"))
	require.NoError(t, f.SortBy("id", "t"))
	return f
}

func TestSaveLoadFrame_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	f := sampleFrame(t)

	require.NoError(t, s.SaveFrame(ctx, "panel", f))

	got, err := s.LoadFrame(ctx, "panel")
	require.NoError(t, err)

	assert.Equal(t, f.RowCount(), got.RowCount())
	assert.Equal(t, f.Names(), got.Names())
	assert.Equal(t, []string{"id", "t"}, got.DeclaredSortKey())
	assert.Equal(t, "ev s=7 k=1 l=0", got.ColumnLabel("ev_7_1_0"))
	assert.Equal(t, map[int]string{1: "alpha", 2: "beta"}, got.ValueLabels("id"))

	for _, name := range f.Names() {
		want, err := f.Column(name)
		require.NoError(t, err)
		have, err := got.Column(name)
		require.NoError(t, err)
		assert.Equal(t, want.Kind, have.Kind, name)
		for row := range want.Values {
			if dataset.IsMissing(want.Values[row]) {
				assert.True(t, dataset.IsMissing(have.Values[row]), "%s row %d", name, row)
				continue
			}
			assert.Equal(t, want.Values[row], have.Values[row], "%s row %d", name, row)
		}
	}
}

func TestSaveFrame_StoresOnlyNonZeroCells(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SaveFrame(ctx, "panel", sampleFrame(t)))

	var count int
	require.NoError(t, s.db.QueryRow(
		`SELECT COUNT(*) FROM cells WHERE dataset = 'panel' AND column_name = 'x'`,
	).Scan(&count))
	assert.Equal(t, 2, count, "zero cell should not be stored")

	var nulls int
	require.NoError(t, s.db.QueryRow(
		`SELECT COUNT(*) FROM cells WHERE dataset = 'panel' AND value IS NULL`,
	).Scan(&nulls))
	assert.Equal(t, 1, nulls, "missing cell is stored as NULL")
}

func TestSaveFrame_ReplacesExisting(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SaveFrame(ctx, "panel", sampleFrame(t)))

	smaller := dataset.New(1)
	require.NoError(t, smaller.AddColumn("only", dataset.KindInt, []float64{4}))
	require.NoError(t, s.SaveFrame(ctx, "panel", smaller))

	got, err := s.LoadFrame(ctx, "panel")
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, got.Names())
	assert.Equal(t, 1, got.RowCount())
	assert.Empty(t, got.DeclaredSortKey())
	assert.Empty(t, got.ValueLabels("id"))
}

func TestLoadFrame_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadFrame(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestListDatasets(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	infos, err := s.ListDatasets(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)

	require.NoError(t, s.SaveFrame(ctx, "b", sampleFrame(t)))
	require.NoError(t, s.SaveFrame(ctx, "a", dataset.New(0)))

	infos, err = s.ListDatasets(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, DatasetInfo{Name: "a", Rows: 0, Columns: 0, SortKey: []string{}}, infos[0])
	assert.Equal(t, DatasetInfo{Name: "b", Rows: 3, Columns: 4, SortKey: []string{"id", "t"}}, infos[1])
}

func TestDeleteDataset(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SaveFrame(ctx, "panel", sampleFrame(t)))

	require.NoError(t, s.DeleteDataset(ctx, "panel"))
	_, err := s.LoadFrame(ctx, "panel")
	assert.ErrorIs(t, err, ErrDatasetNotFound)

	assert.ErrorIs(t, s.DeleteDataset(ctx, "panel"), ErrDatasetNotFound)
}
