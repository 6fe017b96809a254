package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ftl/config"
	"ftl/events"
	"ftl/jsonrpc"
	"ftl/ledger"
	"ftl/logx"
	"ftl/store"
	"ftl/token"
)

type NodeConfig struct {
	GenesisFile string
	ConfigFile  string
}

var nodeConfig NodeConfig

// nodeCmd runs the token node: stores, engine, JSON-RPC surface
var nodeCmd = &cobra.Command{
	Use:   "node [flags]",
	Short: "Run a token ledger node",
	Long: `Runs the token ledger node: opens the key-value store, runs genesis once
if the store is fresh, and serves the token operations over JSON-RPC.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runNode(nodeConfig); err != nil {
			logx.Error("NODE", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(nodeCmd)

	nodeCmd.PersistentFlags().StringVarP(&nodeConfig.GenesisFile, "genesis", "g", "config/genesis.yml", "genesis config file (YAML)")
	nodeCmd.PersistentFlags().StringVarP(&nodeConfig.ConfigFile, "config", "c", "config/node.ini", "node config file (INI)")
}

func runNode(nodeConfig NodeConfig) error {
	cfg, err := config.LoadNodeConfig(nodeConfig.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load node config: %w", err)
	}

	balanceStore, allowanceStore, supplyStore, err := store.CreateStore(&cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to create stores: %w", err)
	}
	defer balanceStore.MustClose()

	eventRouter := events.NewEventRouter(events.NewEventBus(), events.NewEventLog())

	l, err := ledger.NewLedger(balanceStore, supplyStore)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	allowances := ledger.NewAllowanceRegistry(allowanceStore)
	engine := token.NewEngine(l, allowances, eventRouter)

	if !engine.Initialized() {
		genesis, err := config.LoadGenesisConfig(nodeConfig.GenesisFile)
		if err != nil {
			return fmt.Errorf("store is fresh and genesis config is unusable: %w", err)
		}
		supply, err := genesis.Supply()
		if err != nil {
			return err
		}
		if err := engine.InitGenesis(genesis.Deployer, supply); err != nil {
			return fmt.Errorf("genesis failed: %w", err)
		}
		logx.Info("NODE", fmt.Sprintf("Genesis complete: %s credited to %s", supply.Dec(), genesis.Deployer))
	} else {
		logx.Info("NODE", fmt.Sprintf("Resuming ledger with total supply %s", engine.TotalSupply().Dec()))
	}

	// startup audit: conservation must hold before serving
	sum, err := l.SumBalances()
	if err != nil {
		return fmt.Errorf("startup audit failed: %w", err)
	}
	if sum.Cmp(l.TotalSupply()) != 0 {
		return fmt.Errorf("ledger corrupt: sum of balances %s != total supply %s", sum.Dec(), l.TotalSupply().Dec())
	}

	server := jsonrpc.NewServer(cfg.Listen, engine, l)
	server.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logx.Info("NODE", fmt.Sprintf("Received %s, shutting down", sig))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Stop(ctx)
}
