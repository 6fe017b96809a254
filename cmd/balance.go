package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ftl/client"
	"ftl/logx"
)

type BalanceConfig struct {
	NodeURL string
	Address string
}

var balanceConfig BalanceConfig

// balanceCmd queries the balance of an account
var balanceCmd = &cobra.Command{
	Use:   "balance [flags]",
	Short: "Query the balance of an account",
	Run: func(cmd *cobra.Command, args []string) {
		if err := queryBalance(balanceConfig); err != nil {
			logx.Error("BALANCE CLI", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.PersistentFlags().StringVarP(&balanceConfig.NodeURL, "node-url", "u", "http://localhost:9090", "token node URL")
	balanceCmd.PersistentFlags().StringVarP(&balanceConfig.Address, "address", "d", "", "account address")
}

func queryBalance(cfg BalanceConfig) error {
	c := client.NewClient(client.Config{Endpoint: cfg.NodeURL})
	balance, err := c.GetBalance(context.Background(), cfg.Address)
	if err != nil {
		return err
	}

	fmt.Printf("Balance of %s: %s\n", cfg.Address, balance.Dec())
	return nil
}
