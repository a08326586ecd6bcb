package upload

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestStage_AcquireAndRelease(t *testing.T) {
	dir := t.TempDir()

	f, err := Stage(strings.NewReader("hello"), "a.txt", Options{Dir: dir, MaxBytes: 100})
	require.NoError(t, err)

	assert.Equal(t, "a.txt", f.Name)
	assert.Equal(t, int64(5), f.Size)
	b, err := f.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	require.NoError(t, f.Release())
	_, err = os.Stat(f.Path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, f.Release(), "release is idempotent")
}

func TestStage_TooLargeLeavesNothing(t *testing.T) {
	dir := t.TempDir()

	_, err := Stage(strings.NewReader(strings.Repeat("x", 64)), "big.bin", Options{Dir: dir, MaxBytes: 10, ChunkSize: 8})

	assert.ErrorIs(t, err, ErrTooLarge)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStage_ReadErrorLeavesNothing(t *testing.T) {
	dir := t.TempDir()

	_, err := Stage(failingReader{}, "a.pdf", Options{Dir: dir})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStage_UniqueNames(t *testing.T) {
	dir := t.TempDir()

	a, err := Stage(strings.NewReader("1"), "same.txt", Options{Dir: dir})
	require.NoError(t, err)
	defer a.Release()
	b, err := Stage(strings.NewReader("2"), "same.txt", Options{Dir: dir})
	require.NoError(t, err)
	defer b.Release()

	assert.NotEqual(t, a.Path, b.Path)
}
