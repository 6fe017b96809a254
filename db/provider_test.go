package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func providers(t *testing.T) map[string]DatabaseProvider {
	t.Helper()

	leveldb, err := NewLevelDBProvider(filepath.Join(t.TempDir(), "leveldb"))
	require.NoError(t, err)

	boltdb, err := NewBoltProvider(filepath.Join(t.TempDir(), "bolt.db"))
	require.NoError(t, err)

	memory, err := NewMemoryProvider()
	require.NoError(t, err)

	all := map[string]DatabaseProvider{
		"leveldb": leveldb,
		"boltdb":  boltdb,
		"memory":  memory,
	}
	t.Cleanup(func() {
		for _, p := range all {
			p.Close()
		}
	})
	return all
}

func TestProviderGetAbsentKeyIsNil(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			value, err := p.Get([]byte("missing"))
			require.NoError(t, err)
			assert.Nil(t, value, "absent key must read as nil, not error")
		})
	}
}

func TestProviderPutOverwrites(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.Put([]byte("k"), []byte("v1")))
			require.NoError(t, p.Put([]byte("k"), []byte("v2")))

			value, err := p.Get([]byte("k"))
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), value)

			has, err := p.Has([]byte("k"))
			require.NoError(t, err)
			assert.True(t, has)
		})
	}
}

func TestProviderDelete(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.Put([]byte("k"), []byte("v")))
			require.NoError(t, p.Delete([]byte("k")))

			value, err := p.Get([]byte("k"))
			require.NoError(t, err)
			assert.Nil(t, value)
		})
	}
}

func TestProviderBatchAtomicWrite(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			batch := p.Batch()
			batch.Put([]byte("a"), []byte("1"))
			batch.Put([]byte("b"), []byte("2"))
			require.NoError(t, batch.Write())
			batch.Close()

			a, err := p.Get([]byte("a"))
			require.NoError(t, err)
			b, err := p.Get([]byte("b"))
			require.NoError(t, err)
			assert.Equal(t, []byte("1"), a)
			assert.Equal(t, []byte("2"), b)
		})
	}
}

func TestProviderIteratePrefix(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			iterable, ok := p.(IterableProvider)
			require.True(t, ok, "provider %s must support iteration", name)

			require.NoError(t, p.Put([]byte("balance:alice"), []byte("1")))
			require.NoError(t, p.Put([]byte("balance:bob"), []byte("2")))
			require.NoError(t, p.Put([]byte("meta:supply"), []byte("3")))

			seen := make(map[string]string)
			err := iterable.IteratePrefix([]byte("balance:"), func(key, value []byte) bool {
				seen[string(key)] = string(value)
				return true
			})
			require.NoError(t, err)

			assert.Equal(t, map[string]string{
				"balance:alice": "1",
				"balance:bob":   "2",
			}, seen)
		})
	}
}

func TestProviderCloseIsIdempotent(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.Close())
			assert.NoError(t, p.Close())
		})
	}
}
