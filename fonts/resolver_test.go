package fonts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	for _, name := range []string{"embed:goregular", "gomono", "GoBold.ttf"} {
		data, err := Load(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
	_, err := Load("embed:comic-sans")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolvePrefersExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "caption.ttf")
	require.NoError(t, os.WriteFile(path, []byte("font-bytes"), 0o644))

	r := &Resolver{Fallback: DefaultEmbedded}
	font, err := r.Resolve(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, font.Source)
	assert.Equal(t, []byte("font-bytes"), font.Data)
}

func TestResolveSearchesDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "caption.ttf"), []byte("x"), 0o644))

	r := &Resolver{Dirs: []string{t.TempDir(), dir}}
	font, err := r.Resolve("caption.ttf", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "caption.ttf"), font.Source)
}

// accept 拒绝的候选会被跳过，最终回落到内置字体。
func TestResolveFallsBackWhenRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.ttf")
	require.NoError(t, os.WriteFile(path, []byte("not a font"), 0o644))

	r := &Resolver{Fallback: DefaultEmbedded}
	font, err := r.Resolve(path, func(f Font) error {
		if f.Source == path {
			return errors.New("parse failed")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "embed:goregular", font.Source)
	assert.Equal(t, Default(), font.Data)
}

func TestResolveWithoutFallback(t *testing.T) {
	r := &Resolver{}
	_, err := r.Resolve("definitely-missing-font.ttf", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
