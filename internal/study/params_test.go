package study

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/panelstudy/internal/dataset"
	"github.com/roach88/panelstudy/internal/testutil"
)

func configErrorCode(t *testing.T, err error) ConfigErrorCode {
	t.Helper()
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce), "expected ConfigurationError, got %v", err)
	return ce.Code
}

func TestNewParams_Valid(t *testing.T) {
	f := testutil.PanelFrame(t, [][4]float64{{1, 1, 7, 0}})

	p, err := NewParams(testConfig(2, 1), f)
	require.NoError(t, err)
	assert.Equal(t, 2, p.K)
	assert.Equal(t, 1, p.L)
	assert.Equal(t, "ev_*", p.Namespace())
	assert.Equal(t, 4, p.ColumnsPerState())
}

func TestNewParams_CanonicalizesColumnNames(t *testing.T) {
	f := testutil.PanelFrame(t, [][4]float64{{1, 1, 7, 0}})

	cfg := testConfig(1, 0)
	cfg.Event = " ev"
	cfg.State = "st "
	cfg.Panel = "\tid"
	cfg.Time = " t "

	p, err := NewParams(cfg, f)
	require.NoError(t, err, "padded names must match the declared sort key")
	assert.Equal(t, "ev", p.Event)
	assert.Equal(t, "st", p.State)
	assert.Equal(t, "id", p.Panel)
	assert.Equal(t, "t", p.Time)
	assert.Equal(t, "ev_*", p.Namespace())
}

func TestNewParams_Errors(t *testing.T) {
	f := testutil.PanelFrame(t, [][4]float64{{1, 1, 7, 0}})

	tests := []struct {
		name  string
		cfg   func(c *Config)
		code  ConfigErrorCode
		param string
		value string
	}{
		{"K below one", func(c *Config) { c.K = 0 }, ErrCodeInvalidK, "K", "0"},
		{"L negative", func(c *Config) { c.L = -1 }, ErrCodeInvalidL, "L", "-1"},
		{"workers negative", func(c *Config) { c.Workers = -2 }, ErrCodeInvalidWorkers, "workers", "-2"},
		{"missing event", func(c *Config) { c.Event = "nope" }, ErrCodeUnknownColumn, "event", "nope"},
		{"empty state", func(c *Config) { c.State = "" }, ErrCodeUnknownColumn, "state", ""},
		{"wrong panel", func(c *Config) { c.Panel = c.State }, ErrCodeNotSorted, "sortedby", "id t"},
		{"swapped panel and time", func(c *Config) { c.Panel, c.Time = c.Time, c.Panel }, ErrCodeNotSorted, "sortedby", "id t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(2, 1)
			tt.cfg(&cfg)

			_, err := NewParams(cfg, f)
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err))
			assert.Equal(t, tt.code, configErrorCode(t, err))

			var ce *ConfigurationError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.param, ce.Param)
			assert.Equal(t, tt.value, ce.Value)
		})
	}
}

func TestNewParams_ErrorMessageNamesValue(t *testing.T) {
	f := testutil.PanelFrame(t, [][4]float64{{1, 1, 7, 0}})

	_, err := NewParams(testConfig(0, 1), f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "K (0) cannot be < 1")
}

func TestNewParams_UnsortedFrame(t *testing.T) {
	f := dataset.New(1)
	for _, name := range []string{"id", "t", "st", "ev"} {
		require.NoError(t, f.AddColumn(name, dataset.KindDouble, nil))
	}

	_, err := NewParams(testConfig(1, 0), f)
	assert.Equal(t, ErrCodeNotSorted, configErrorCode(t, err))
}

func TestNewParams_LongerSortKeyIsAccepted(t *testing.T) {
	f := testutil.PanelFrame(t, [][4]float64{{1, 1, 7, 0}})
	require.NoError(t, f.SortBy("id", "t", "st"))

	_, err := NewParams(testConfig(1, 0), f)
	assert.NoError(t, err)
}

func TestNewParams_RejectsInputInOutputNamespace(t *testing.T) {
	f := dataset.New(1)
	for _, name := range []string{"id", "t", "ev_state", "ev"} {
		require.NoError(t, f.AddColumn(name, dataset.KindDouble, nil))
	}
	require.NoError(t, f.SortBy("id", "t"))

	cfg := testConfig(1, 0)
	cfg.State = "ev_state"
	_, err := NewParams(cfg, f)
	assert.Equal(t, ErrCodeReservedColumn, configErrorCode(t, err))
}
