package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	store, err := New(t.TempDir(), "http://localhost:8080/")
	require.NoError(t, err)

	t.Run("stores the blob and returns its public URL", func(t *testing.T) {
		url, err := store.Save(BucketAvatars, "me.PNG", strings.NewReader("fake image bytes"))
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(url, "http://localhost:8080/files/avatars/"), url)
		assert.True(t, strings.HasSuffix(url, ".png"), url)

		name := url[strings.LastIndex(url, "/")+1:]
		data, err := os.ReadFile(filepath.Join(store.Root(), BucketAvatars, name))
		require.NoError(t, err)
		assert.Equal(t, "fake image bytes", string(data))
	})

	t.Run("rejects unknown buckets", func(t *testing.T) {
		_, err := store.Save("secrets", "x.png", strings.NewReader(""))
		assert.ErrorIs(t, err, ErrUnknownBucket)
	})

	t.Run("hostile filenames cannot steer the path", func(t *testing.T) {
		url, err := store.Save(BucketAvatars, "../../etc/passwd", strings.NewReader("x"))
		require.NoError(t, err)
		assert.NotContains(t, url, "..")

		url, err = store.Save(BucketAvatars, "no-extension", strings.NewReader("x"))
		require.NoError(t, err)
		assert.NotContains(t, url[strings.LastIndex(url, "/"):], ".")
	})
}
