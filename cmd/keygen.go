package cmd

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ftl/identity"
	"ftl/logx"
)

type KeygenConfig struct {
	OutFile string
}

var keygenConfig KeygenConfig

// keygenCmd generates an ed25519 keypair and prints the token address
var keygenCmd = &cobra.Command{
	Use:   "keygen [flags]",
	Short: "Generate an account keypair",
	Long: `Generates an Ed25519 keypair. The private key is written hex-encoded to the
output file; the printed address is the base58 encoding of the public key.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := generateKey(keygenConfig); err != nil {
			logx.Error("KEYGEN CLI", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)

	keygenCmd.PersistentFlags().StringVarP(&keygenConfig.OutFile, "out", "o", "account_key.txt", "private key output file")
}

func generateKey(cfg KeygenConfig) error {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("could not generate keypair: %w", err)
	}

	if err := os.WriteFile(cfg.OutFile, []byte(hex.EncodeToString(priv)), 0600); err != nil {
		return fmt.Errorf("could not write key file: %w", err)
	}

	fmt.Printf("Address:     %s\n", identity.AddressFromPubKey(pub))
	fmt.Printf("Private key: written to %s\n", cfg.OutFile)
	return nil
}
