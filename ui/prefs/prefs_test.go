package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", prefsFile)

	p := LoadFrom(path)
	require.Equal(t, path, p.Path())
	require.Equal(t, 0.0, p.Float(KeyJitterThreshold))
	require.True(t, p.Bool(KeyOCREnabled, true))

	p.SetFloat(KeyJitterThreshold, 7)
	p.SetString(KeyLastDirectory, "/tmp/scans")
	p.SetBool(KeyOCREnabled, false)
	require.NoError(t, p.Save())

	reloaded := LoadFrom(path)
	require.Equal(t, 7.0, reloaded.Float(KeyJitterThreshold))
	require.Equal(t, "/tmp/scans", reloaded.String(KeyLastDirectory))
	require.False(t, reloaded.Bool(KeyOCREnabled, true))
}

func TestWrongTypesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	data := `{"jitterThreshold": "big", "lastImage": 3, "ocrEnabled": "yes", "handleRadius": -2}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	p := LoadFrom(path)
	require.Equal(t, 5.0, p.FloatWithFallback(KeyJitterThreshold, 5))
	require.Equal(t, "", p.String(KeyLastImage))
	require.True(t, p.Bool(KeyOCREnabled, true))
	require.Equal(t, 6.0, p.PositiveFloat(KeyHandleRadius, 6))
}

func TestCorruptFileYieldsEmptyPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	p := LoadFrom(path)
	require.Equal(t, "", p.String(KeyLastDirectory))
	p.SetString(KeyLastDirectory, "x")
	require.NoError(t, p.Save())
}
