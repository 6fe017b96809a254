package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ftl/store"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadGenesisConfig(t *testing.T) {
	path := writeFile(t, "genesis.yml", `
genesis:
  initial_supply: "1_000_000"
  deployer: "someaddress"
`)

	genesis, err := LoadGenesisConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "someaddress", genesis.Deployer)
	supply, err := genesis.Supply()
	require.NoError(t, err)
	assert.Equal(t, "1000000", supply.Dec())
}

func TestLoadGenesisConfigRejectsBadSupply(t *testing.T) {
	path := writeFile(t, "genesis.yml", `
genesis:
  initial_supply: "not-a-number"
  deployer: "someaddress"
`)

	_, err := LoadGenesisConfig(path)
	assert.Error(t, err)
}

func TestLoadGenesisConfigRejectsMissingDeployer(t *testing.T) {
	path := writeFile(t, "genesis.yml", `
genesis:
  initial_supply: "100"
`)

	_, err := LoadGenesisConfig(path)
	assert.Error(t, err)
}

func TestLoadNodeConfig(t *testing.T) {
	path := writeFile(t, "node.ini", `
[server]
listen = :7070

[store]
type = boltdb
directory = /var/lib/ftl
`)

	cfg, err := LoadNodeConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Listen)
	assert.Equal(t, store.BoltDBStoreType, cfg.Store.Type)
	assert.Equal(t, "/var/lib/ftl", cfg.Store.Directory)
}

func TestLoadNodeConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadNodeConfig(filepath.Join(t.TempDir(), "nope.ini"))
	require.NoError(t, err)

	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, DefaultStoreType, cfg.Store.Type)
	assert.Equal(t, DefaultStoreDir, cfg.Store.Directory)
}

func TestLoadNodeConfigRejectsUnknownStore(t *testing.T) {
	path := writeFile(t, "node.ini", `
[store]
type = rocksdb
directory = /tmp/x
`)

	_, err := LoadNodeConfig(path)
	assert.Error(t, err)
}

func TestLoadEd25519PrivKey(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	path := writeFile(t, "key.txt", hex.EncodeToString(priv)+"\n")

	loaded, err := LoadEd25519PrivKey(path)
	require.NoError(t, err)
	assert.Equal(t, priv, loaded)
}

func TestLoadEd25519PrivKeyRejectsBadContent(t *testing.T) {
	path := writeFile(t, "key.txt", "not hex at all")
	_, err := LoadEd25519PrivKey(path)
	assert.Error(t, err)

	short := writeFile(t, "short.txt", "abcd")
	_, err = LoadEd25519PrivKey(short)
	assert.Error(t, err)
}
