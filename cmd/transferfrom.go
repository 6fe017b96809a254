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

type TransferFromConfig struct {
	PrivateKey     string
	PrivateKeyFile string
	NodeURL        string
	Owner          string
	To             string
	Amount         string
}

var transferFromConfig TransferFromConfig

// transferFromCmd spends a previously granted allowance
var transferFromCmd = &cobra.Command{
	Use:   "transferfrom [flags]",
	Short: "Spend an allowance with a delegated transfer",
	Long: `Moves tokens out of the owner's balance using the allowance previously
granted to the key holder. Fails if the remaining allowance or the owner's
balance is too small; a failed attempt consumes nothing.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := transferFromOwner(transferFromConfig); err != nil {
			logx.Error("TRANSFERFROM CLI", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(transferFromCmd)

	transferFromCmd.PersistentFlags().StringVarP(&transferFromConfig.PrivateKeyFile, "private-key-file", "f", "", "spender private key file")
	transferFromCmd.PersistentFlags().StringVarP(&transferFromConfig.PrivateKey, "private-key", "p", "", "spender private key in hex")
	transferFromCmd.PersistentFlags().StringVarP(&transferFromConfig.NodeURL, "node-url", "u", "http://localhost:9090", "token node URL")
	transferFromCmd.PersistentFlags().StringVarP(&transferFromConfig.Owner, "owner", "o", "", "address of the granting owner")
	transferFromCmd.PersistentFlags().StringVarP(&transferFromConfig.To, "to", "t", "", "address of recipient")
	transferFromCmd.PersistentFlags().StringVarP(&transferFromConfig.Amount, "amount", "a", "", "amount")
}

func transferFromOwner(cfg TransferFromConfig) error {
	amount, err := utils.ParseAmount(cfg.Amount)
	if err != nil {
		return fmt.Errorf("could not parse amount string: %w", err)
	}

	priv, err := loadPrivateKey(cfg.PrivateKey, cfg.PrivateKeyFile)
	if err != nil {
		return err
	}

	c := client.NewClient(client.Config{Endpoint: cfg.NodeURL})
	if err := c.TransferFrom(context.Background(), priv, cfg.Owner, cfg.To, amount); err != nil {
		return err
	}

	fmt.Printf("Transferred %s from %s to %s as spender %s\n", amount.Dec(), cfg.Owner, cfg.To, identity.AddressFromPrivKey(priv))
	return nil
}
