package identity

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Account identity for the token: an address is the base58 encoding of an
// ed25519 public key. "Who is calling" is resolved by verifying the signature
// on an operation payload against the claimed sender's key; the engine itself
// only ever sees the resolved address as a plain parameter.

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrBadSignature   = errors.New("bad signature")
)

// AddressFromPubKey encodes an ed25519 public key as a base58 address
func AddressFromPubKey(pub ed25519.PublicKey) string {
	return base58.Encode(pub)
}

// PubKeyFromAddress decodes a base58 address back into an ed25519 public key
func PubKeyFromAddress(addr string) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: wrong key length %d", ErrInvalidAddress, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// AddressFromPrivKey derives the address controlled by an ed25519 private key
func AddressFromPrivKey(priv ed25519.PrivateKey) string {
	return AddressFromPubKey(priv.Public().(ed25519.PublicKey))
}

// Sign signs an operation payload, returning the hex-encoded signature
func Sign(priv ed25519.PrivateKey, payload []byte) string {
	return hex.EncodeToString(ed25519.Sign(priv, payload))
}

// ResolveCaller verifies that sigHex is the claimed sender's signature over
// payload and returns the sender address as the resolved caller. Any
// mismatch fails with ErrBadSignature; the operation never reaches the
// engine with an unverified identity.
func ResolveCaller(sender string, payload []byte, sigHex string) (string, error) {
	pub, err := PubKeyFromAddress(sender)
	if err != nil {
		return "", err
	}

	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return "", fmt.Errorf("%w: signature is not hex", ErrBadSignature)
	}
	if len(sig) != ed25519.SignatureSize {
		return "", fmt.Errorf("%w: wrong signature length %d", ErrBadSignature, len(sig))
	}

	if !ed25519.Verify(pub, payload, sig) {
		return "", ErrBadSignature
	}

	return sender, nil
}
