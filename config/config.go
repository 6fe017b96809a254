package config

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"ftl/logx"
	"ftl/store"
)

const (
	DefaultListen    = ":9090"
	DefaultStoreType = store.LevelDBStoreType
	DefaultStoreDir  = "./data"
)

// LoadGenesisConfig reads and parses the genesis.yml file
func LoadGenesisConfig(path string) (*GenesisConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open genesis file: %w", err)
	}
	defer file.Close()

	var genesisFile GenesisFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&genesisFile); err != nil {
		return nil, fmt.Errorf("could not decode genesis file: %w", err)
	}

	if err := genesisFile.Genesis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis config: %w", err)
	}

	logx.Info("CONFIG", fmt.Sprintf("Loaded genesis config: deployer=%s supply=%s", genesisFile.Genesis.Deployer, genesisFile.Genesis.InitialSupply))
	return &genesisFile.Genesis, nil
}

// LoadNodeConfig reads runtime node settings from an INI file. A missing
// file yields the defaults.
func LoadNodeConfig(path string) (*NodeConfig, error) {
	cfg := &NodeConfig{
		Listen: DefaultListen,
		Store: store.StoreConfig{
			Type:      DefaultStoreType,
			Directory: DefaultStoreDir,
		},
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logx.Warn("CONFIG", fmt.Sprintf("Node config %s not found, using defaults", path))
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("could not load node config: %w", err)
	}

	server := file.Section("server")
	if listen := server.Key("listen").String(); listen != "" {
		cfg.Listen = listen
	}

	storeSection := file.Section("store")
	if storeType := storeSection.Key("type").String(); storeType != "" {
		cfg.Store.Type = store.StoreType(storeType)
	}
	if dir := storeSection.Key("directory").String(); dir != "" {
		cfg.Store.Directory = dir
	}

	if err := cfg.Store.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}

	return cfg, nil
}

// LoadEd25519PrivKey loads an Ed25519 private key from a file (expects hex encoding)
func LoadEd25519PrivKey(path string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read key file: %w", err)
	}
	key, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("key file is not hex: %w", err)
	}
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length %d", len(key))
	}
	return ed25519.PrivateKey(key), nil
}
