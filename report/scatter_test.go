package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/osvm/pkg/errors"
)

func TestWriteScatter(t *testing.T) {
	for _, ext := range []string{".png", ".svg"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cv"+ext)

			err := WriteScatter(path, []float64{1, 2, 3}, []float64{1.1, 1.9, 3.2}, "cross validation")
			require.NoError(t, err)

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestWriteScatterErrors(t *testing.T) {
	dir := t.TempDir()

	err := WriteScatter(filepath.Join(dir, "a.png"), nil, nil, "")
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))

	err = WriteScatter(filepath.Join(dir, "b.png"), []float64{1, 2}, []float64{1}, "")
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	err = WriteScatter(filepath.Join(dir, "c.unknown"), []float64{1, 2}, []float64{1, 2}, "")
	var ioErr *errors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "save plot to file", ioErr.Op)
}
