package dataio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/roach88/panelstudy/internal/dataset"
)

const sampleCSV = `id,t,regime,ev,score
1,1,low,0,0.5
1,2,high,1,
1,3,.,NA,1.25
2,1,high,1,2
`

func TestReadCSV_KindsMissingAndEncoding(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 4, f.RowCount())
	assert.Equal(t, []string{"id", "t", "regime", "ev", "score"}, f.Names())

	id, _ := f.Column("id")
	assert.Equal(t, dataset.KindInt, id.Kind)
	score, _ := f.Column("score")
	assert.Equal(t, dataset.KindDouble, score.Kind)
	assert.True(t, dataset.IsMissing(score.Values[1]))

	ev, _ := f.Column("ev")
	assert.True(t, dataset.IsMissing(ev.Values[2]))

	regime, _ := f.Column("regime")
	assert.Equal(t, dataset.KindInt, regime.Kind)
	assert.Equal(t, 2.0, regime.Values[0]) // "high" < "low"
	assert.Equal(t, 1.0, regime.Values[1])
	assert.True(t, dataset.IsMissing(regime.Values[2]))
	assert.Equal(t, map[int]string{1: "high", 2: "low"}, f.ValueLabels("regime"))
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("a,a\n1,2\n"))
	assert.ErrorIs(t, err, dataset.ErrColumnExists)
}

func TestReadCSV_ShortRowsArePadded(t *testing.T) {
	f, err := ReadCSV(strings.NewReader("a,b\n1\n2,3\n"))
	require.NoError(t, err)

	b, _ := f.Column("b")
	assert.True(t, dataset.IsMissing(b.Values[0]))
	assert.Equal(t, 3.0, b.Values[1])
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, f))
	assert.Equal(t, `id,t,regime,ev,score
1,1,2,0,0.5
1,2,1,1,
1,3,,,1.25
2,1,1,1,2
`, buf.String())
}

func TestXLSX_RoundTrip(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "panel.xlsx")
	require.NoError(t, WriteFile(path, f, "data"))

	back, err := ReadFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, f.Names(), back.Names())
	assert.Equal(t, f.RowCount(), back.RowCount())

	for _, name := range f.Names() {
		want, _ := f.Column(name)
		got, _ := back.Column(name)
		for row := range want.Values {
			if dataset.IsMissing(want.Values[row]) {
				assert.True(t, dataset.IsMissing(got.Values[row]), "%s[%d]", name, row)
				continue
			}
			assert.Equal(t, want.Values[row], got.Values[row], "%s[%d]", name, row)
		}
	}
}

func TestReadXLSX_NamedSheetWithStrings(t *testing.T) {
	wb := excelize.NewFile()
	require.NoError(t, wb.SetSheetName("Sheet1", "panel"))
	require.NoError(t, wb.SetSheetRow("panel", "A1", &[]interface{}{"id", "country"}))
	require.NoError(t, wb.SetSheetRow("panel", "A2", &[]interface{}{1, "FR"}))
	require.NoError(t, wb.SetSheetRow("panel", "A3", &[]interface{}{2, "DE"}))
	path := filepath.Join(t.TempDir(), "named.xlsx")
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	f, err := ReadXLSX(path, "panel")
	require.NoError(t, err)

	country, _ := f.Column("country")
	assert.Equal(t, []float64{2, 1}, country.Values)
	text, ok := f.LookupValueLabel("country", 1)
	assert.True(t, ok)
	assert.Equal(t, "DE", text)

	_, err = ReadXLSX(path, "nope")
	assert.Error(t, err)
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := ReadFile("data.parquet", "")
	assert.Error(t, err)
	assert.Error(t, WriteFile("data.parquet", dataset.New(0), ""))
}
