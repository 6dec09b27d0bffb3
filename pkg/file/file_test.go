package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListByExt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.srt", "a.srt", "C.SRT", "notes.txt", "noext"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.srt"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested.srt", "d.srt"), []byte("x"), 0o644))

	got, err := ListByExt(dir, "srt")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "C.SRT"),
		filepath.Join(dir, "a.srt"),
		filepath.Join(dir, "b.srt"),
	}, got)
}

func TestListByExt_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := ListByExt(filepath.Join(t.TempDir(), "missing"), ".srt")
	require.Error(t, err)
}

func TestListByExt_Empty(t *testing.T) {
	t.Parallel()

	got, err := ListByExt(t.TempDir(), ".srt")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTranslatedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		lang string
		want string
	}{
		{"movie.srt", "pt", "movie.srt-pt.srt"},
		{"/in/show.s01e01.srt", "pt-BR", "show.s01e01.srt-pt-BR.srt"},
		{"noext", "de", "noext-de"},
		{"", "de", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TranslatedName(tt.path, tt.lang), tt.path)
	}
	assert.Equal(t, filepath.Join("out", "movie.srt-pt.srt"), TranslatedPath("out", "in/movie.srt", "pt"))
}
