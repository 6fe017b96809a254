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

type TransferConfig struct {
	PrivateKey     string
	PrivateKeyFile string
	NodeURL        string
	To             string
	Amount         string
}

var transferConfig TransferConfig

// transferCmd represents the transfer command
var transferCmd = &cobra.Command{
	Use:   "transfer [flags]",
	Short: "Transfer tokens to another account",
	Long: `Sends tokens from the key holder's account to the specified recipient.
The private key can be provided either directly via --private-key
or via a file using --private-key-file.

Examples:
  # Transfer 1000 tokens using a private key file
  ftl transfer -t <recipient-address> -a 1_000 -f /path/to/key.txt

  # Transfer 500 tokens using the private key directly
  ftl transfer -t <recipient-address> -a 500 -p "hex-private-key"`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := transferToken(transferConfig); err != nil {
			logx.Error("TRANSFER CLI", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)

	transferCmd.PersistentFlags().StringVarP(&transferConfig.PrivateKeyFile, "private-key-file", "f", "", "sender private key file")
	transferCmd.PersistentFlags().StringVarP(&transferConfig.PrivateKey, "private-key", "p", "", "sender private key in hex")
	transferCmd.PersistentFlags().StringVarP(&transferConfig.NodeURL, "node-url", "u", "http://localhost:9090", "token node URL")
	transferCmd.PersistentFlags().StringVarP(&transferConfig.To, "to", "t", "", "address of recipient")
	transferCmd.PersistentFlags().StringVarP(&transferConfig.Amount, "amount", "a", "", "amount")
}

func transferToken(cfg TransferConfig) error {
	amount, err := utils.ParseAmount(cfg.Amount)
	if err != nil {
		return fmt.Errorf("could not parse amount string: %w", err)
	}

	priv, err := loadPrivateKey(cfg.PrivateKey, cfg.PrivateKeyFile)
	if err != nil {
		return err
	}

	c := client.NewClient(client.Config{Endpoint: cfg.NodeURL})
	if err := c.Transfer(context.Background(), priv, cfg.To, amount); err != nil {
		return err
	}

	fmt.Printf("Transferred %s from %s to %s\n", amount.Dec(), identity.AddressFromPrivKey(priv), cfg.To)
	return nil
}
