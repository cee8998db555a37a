package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadResourceLimitsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	want := ResourceLimits{
		MaxFileSizeBytes:    2048,
		MaxExpressionDepth:  10,
		MaxFactValueBytes:   256,
		MaxEvaluationTimeMs: 50,
	}

	require.NoError(t, SaveResourceLimits(path, want))

	got, err := LoadResourceLimits(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadResourceLimitsMissingFile(t *testing.T) {
	_, err := LoadResourceLimits(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}
