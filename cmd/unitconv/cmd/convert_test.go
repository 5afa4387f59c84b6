package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicolas2912/UnitConverter/internal/domain/convert"
	"github.com/Nicolas2912/UnitConverter/internal/domain/units"
)

// runRoot executes the root command with args and returns stdout.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		convertJSON = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConvertCmd_NegativeValue(t *testing.T) {
	out, err := runRoot(t, "convert", "Temperature", "-40", "C", "F")
	require.NoError(t, err)
	assert.Contains(t, plain(out), "-40 C = -40 F")
}

func TestConvertCmd_JSONBeforeArgs(t *testing.T) {
	out, err := runRoot(t, "convert", "--json", "Temperature", "-40", "C", "F")
	require.NoError(t, err)

	var res convert.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "F", res.To)
	assert.InDelta(t, -40.0, res.Value, 1e-9)
}

func TestConvertCmd_ResultOutOfRange(t *testing.T) {
	out, err := runRoot(t, "convert", "Length", "1e308", "km", "mm")
	require.Error(t, err)
	assert.ErrorIs(t, err, units.ErrInvalidValue)
	assert.NotContains(t, out, "Inf")
}

func TestConvertCmd_InvalidNumber(t *testing.T) {
	_, err := runRoot(t, "convert", "Length", "abc", "km", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid value "abc"`)
}
