package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ftl/client"
	"ftl/logx"
)

type SupplyConfig struct {
	NodeURL string
	Audit   bool
}

var supplyConfig SupplyConfig

// supplyCmd queries total supply, optionally with the full ledger audit view
var supplyCmd = &cobra.Command{
	Use:   "supply [flags]",
	Short: "Query total supply and ledger audit info",
	Run: func(cmd *cobra.Command, args []string) {
		if err := querySupply(supplyConfig); err != nil {
			logx.Error("SUPPLY CLI", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(supplyCmd)

	supplyCmd.PersistentFlags().StringVarP(&supplyConfig.NodeURL, "node-url", "u", "http://localhost:9090", "token node URL")
	supplyCmd.PersistentFlags().BoolVarP(&supplyConfig.Audit, "audit", "x", false, "also print sum of balances and state digest")
}

func querySupply(cfg SupplyConfig) error {
	c := client.NewClient(client.Config{Endpoint: cfg.NodeURL})

	if !cfg.Audit {
		supply, err := c.GetTotalSupply(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Total supply: %s\n", supply.Dec())
		return nil
	}

	info, err := c.GetLedgerInfo(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Total supply:    %s\n", info.TotalSupply)
	fmt.Printf("Sum of balances: %s\n", info.SumBalances)
	fmt.Printf("State digest:    %s\n", info.StateDigest)
	fmt.Printf("Accounts:        %d\n", info.Accounts)
	return nil
}
