package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ftl/client"
	"ftl/logx"
)

type AllowanceConfig struct {
	NodeURL string
	Owner   string
	Spender string
}

var allowanceConfig AllowanceConfig

// allowanceCmd queries the remaining grant from an owner to a spender
var allowanceCmd = &cobra.Command{
	Use:   "allowance [flags]",
	Short: "Query the remaining allowance for an owner/spender pair",
	Run: func(cmd *cobra.Command, args []string) {
		if err := queryAllowance(allowanceConfig); err != nil {
			logx.Error("ALLOWANCE CLI", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(allowanceCmd)

	allowanceCmd.PersistentFlags().StringVarP(&allowanceConfig.NodeURL, "node-url", "u", "http://localhost:9090", "token node URL")
	allowanceCmd.PersistentFlags().StringVarP(&allowanceConfig.Owner, "owner", "o", "", "owner address")
	allowanceCmd.PersistentFlags().StringVarP(&allowanceConfig.Spender, "spender", "s", "", "spender address")
}

func queryAllowance(cfg AllowanceConfig) error {
	c := client.NewClient(client.Config{Endpoint: cfg.NodeURL})
	allowance, err := c.GetAllowance(context.Background(), cfg.Owner, cfg.Spender)
	if err != nil {
		return err
	}

	fmt.Printf("Allowance %s -> %s: %s\n", cfg.Owner, cfg.Spender, allowance.Dec())
	return nil
}
