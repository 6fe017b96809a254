package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ftl/client"
	"ftl/identity"
	"ftl/logx"
	"ftl/utils"
)

type ApproveConfig struct {
	PrivateKey     string
	PrivateKeyFile string
	NodeURL        string
	Spender        string
	Amount         string
}

var approveConfig ApproveConfig

// approveCmd grants a spender an allowance over the key holder's balance
var approveCmd = &cobra.Command{
	Use:   "approve [flags]",
	Short: "Grant a spender an allowance",
	Long: `Authorizes a spender to move up to the given amount out of the key holder's
balance via delegated transfers. A repeated approval replaces the previous
grant; it does not add to it.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := approveSpender(approveConfig); err != nil {
			logx.Error("APPROVE CLI", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(approveCmd)

	approveCmd.PersistentFlags().StringVarP(&approveConfig.PrivateKeyFile, "private-key-file", "f", "", "owner private key file")
	approveCmd.PersistentFlags().StringVarP(&approveConfig.PrivateKey, "private-key", "p", "", "owner private key in hex")
	approveCmd.PersistentFlags().StringVarP(&approveConfig.NodeURL, "node-url", "u", "http://localhost:9090", "token node URL")
	approveCmd.PersistentFlags().StringVarP(&approveConfig.Spender, "spender", "s", "", "address of spender")
	approveCmd.PersistentFlags().StringVarP(&approveConfig.Amount, "amount", "a", "", "allowance amount")
}

func approveSpender(cfg ApproveConfig) error {
	amount, err := utils.ParseAmount(cfg.Amount)
	if err != nil {
		return fmt.Errorf("could not parse amount string: %w", err)
	}

	priv, err := loadPrivateKey(cfg.PrivateKey, cfg.PrivateKeyFile)
	if err != nil {
		return err
	}

	c := client.NewClient(client.Config{Endpoint: cfg.NodeURL})
	if err := c.Approve(context.Background(), priv, cfg.Spender, amount); err != nil {
		return err
	}

	fmt.Printf("Approved %s to spend %s on behalf of %s\n", cfg.Spender, amount.Dec(), identity.AddressFromPrivKey(priv))
	return nil
}
