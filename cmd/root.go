package cmd

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ftl/logx"
)

var rootCmd = &cobra.Command{
	Use:   "ftl",
	Short: "FTL token ledger CLI",
	Long:  "Command line interface for running and talking to an FTL fungible-token ledger node.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}

// loadPrivateKey resolves a signing key from either an inline hex string or
// a key file, preferring the inline form when both are set
func loadPrivateKey(keyHex string, keyFile string) (ed25519.PrivateKey, error) {
	if keyHex == "" && keyFile == "" {
		return nil, fmt.Errorf("either --private-key or --private-key-file is required")
	}

	if keyHex == "" {
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("could not read key file: %w", err)
		}
		keyHex = strings.TrimSpace(string(data))
	}

	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("private key is not hex: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length %d", len(raw))
	}
	return ed25519.PrivateKey(raw), nil
}
