package tokencache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"redpen/internal/tokenizer"
)

func TestDiskCachePutGet(t *testing.T) {
	c, err := Open(t.TempDir(), nil)
	require.NoError(t, err)

	key := Key("The cats run.", "whitespace")
	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache should miss")

	require.NoError(t, c.Put(key, sampleTokens()))
	got, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	requireSameTokens(t, sampleTokens(), got)

	leftovers, err := filepath.Glob(filepath.Join(c.Dir(), "tokens", "tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp files must not survive Put")
}

func TestDiskCacheOverwrite(t *testing.T) {
	c, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	key := Key("x", "y")

	require.NoError(t, c.Put(key, sampleTokens()))
	replacement := []*tokenizer.TokenElement{tokenizer.NewTokenElementWithTag("x", "SYM")}
	require.NoError(t, c.Put(key, replacement))

	got, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	requireSameTokens(t, replacement, got)
}

func TestDiskCacheDropAll(t *testing.T) {
	c, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	key := Key("x", "y")
	require.NoError(t, c.Put(key, sampleTokens()))

	require.NoError(t, c.DropAll())
	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(key, sampleTokens()), "cache must be usable after DropAll")
}

func TestDiskCacheStaleSchemaIsMiss(t *testing.T) {
	c, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	key := Key("x", "y")
	p := c.pathFor(key)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	data, err := msgpack.Marshal(&payload{Schema: schemaVersion + 1})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(p, data, 0o600))

	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = os.Stat(p)
	assert.ErrorIs(t, err, os.ErrNotExist, "stale entry should be removed")
}

func TestDiskCacheNil(t *testing.T) {
	var c *DiskCache
	key := Key("x", "y")
	require.NoError(t, c.Put(key, sampleTokens()))
	require.NoError(t, c.PutAll(context.Background(), []Entry{{Key: key}}))
	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, c.DropAll())
	assert.Equal(t, "", c.Dir())
}

func TestDiskCachePutAll(t *testing.T) {
	c, err := Open(t.TempDir(), nil)
	require.NoError(t, err)

	entries := make([]Entry, 16)
	for i := range entries {
		surface := fmt.Sprintf("tok%d", i)
		entries[i] = Entry{
			Key:    Key(surface, "whitespace"),
			Tokens: []*tokenizer.TokenElement{tokenizer.NewTokenElementWithTag(surface, "NN")},
		}
	}
	require.NoError(t, c.PutAll(context.Background(), entries))

	for _, e := range entries {
		got, ok, err := c.Get(e.Key)
		require.NoError(t, err)
		require.True(t, ok)
		requireSameTokens(t, e.Tokens, got)
	}
}

func TestDiskCachePutAllCanceled(t *testing.T) {
	c, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = c.PutAll(ctx, []Entry{{Key: Key("x", "y"), Tokens: sampleTokens()}})
	require.ErrorIs(t, err, context.Canceled)
}
