package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspection-api/pkg/config"
)

func TestKeyFromURL(t *testing.T) {
	base := "https://storage.googleapis.com/defects"

	key, ok := keyFromURL(base, publicURL(base, "3/abc.jpg"))
	require.True(t, ok)
	assert.Equal(t, "3/abc.jpg", key)

	key, ok = keyFromURL(base, base+"/3/abc.jpg?generation=1")
	require.True(t, ok)
	assert.Equal(t, "3/abc.jpg", key)

	_, ok = keyFromURL(base, "https://example.com/3/abc.jpg")
	assert.False(t, ok)

	_, ok = keyFromURL(base, base+"/")
	assert.False(t, ok)

	_, ok = keyFromURL("", "https://example.com/a.jpg")
	assert.False(t, ok)
}

func TestNewGCSStoreRequiresBucket(t *testing.T) {
	_, err := NewGCSStore(context.Background(), config.StorageConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestUnconfiguredStore(t *testing.T) {
	var s Unconfigured
	_, err := s.Put(context.Background(), "k", []byte("x"), "image/png")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, ok := s.KeyFromURL("https://storage.googleapis.com/b/k")
	assert.False(t, ok)
}
