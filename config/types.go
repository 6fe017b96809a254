package config

import (
	"fmt"

	"github.com/holiman/uint256"

	"ftl/store"
	"ftl/utils"
)

// GenesisFile is the top-level shape of genesis.yml
type GenesisFile struct {
	Genesis GenesisConfig `yaml:"genesis"`
}

// GenesisConfig fixes the token's one-time construction parameters: who the
// deployer is and how many units exist. Supply is a decimal string in the
// file so it survives YAML integer limits.
type GenesisConfig struct {
	InitialSupply string `yaml:"initial_supply"`
	Deployer      string `yaml:"deployer"`
}

// Supply parses the configured initial supply
func (g *GenesisConfig) Supply() (*uint256.Int, error) {
	supply, err := utils.ParseAmount(g.InitialSupply)
	if err != nil {
		return nil, fmt.Errorf("invalid initial_supply %q: %w", g.InitialSupply, err)
	}
	return supply, nil
}

// Validate checks the genesis parameters are usable
func (g *GenesisConfig) Validate() error {
	if g.Deployer == "" {
		return fmt.Errorf("genesis deployer cannot be empty")
	}
	if _, err := g.Supply(); err != nil {
		return err
	}
	return nil
}

// NodeConfig carries the runtime settings of a node, loaded from an INI file
type NodeConfig struct {
	// Listen is the JSON-RPC listen address
	Listen string

	// Store selects and locates the key-value backend
	Store store.StoreConfig
}
