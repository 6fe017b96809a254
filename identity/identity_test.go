package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeypair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

func TestAddressRoundTrip(t *testing.T) {
	pub, priv := testKeypair(t)

	addr := AddressFromPubKey(pub)
	require.NotEmpty(t, addr)
	assert.Equal(t, addr, AddressFromPrivKey(priv))

	decoded, err := PubKeyFromAddress(addr)
	require.NoError(t, err)
	assert.Equal(t, pub, decoded)
}

func TestPubKeyFromAddressRejectsGarbage(t *testing.T) {
	_, err := PubKeyFromAddress("not-base58-0OIl")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	// valid base58 but wrong length
	_, err = PubKeyFromAddress("abc")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestResolveCaller(t *testing.T) {
	pub, priv := testKeypair(t)
	addr := AddressFromPubKey(pub)
	payload := []byte(`{"sender":"x","recipient":"y","amount":"10"}`)

	sig := Sign(priv, payload)

	caller, err := ResolveCaller(addr, payload, sig)
	require.NoError(t, err)
	assert.Equal(t, addr, caller)
}

func TestResolveCallerRejectsTamperedPayload(t *testing.T) {
	pub, priv := testKeypair(t)
	addr := AddressFromPubKey(pub)

	sig := Sign(priv, []byte("amount=10"))

	_, err := ResolveCaller(addr, []byte("amount=9999"), sig)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestResolveCallerRejectsWrongSigner(t *testing.T) {
	pub, _ := testKeypair(t)
	_, otherPriv := testKeypair(t)
	addr := AddressFromPubKey(pub)
	payload := []byte("payload")

	// signed by a different key than the claimed sender
	sig := Sign(otherPriv, payload)

	_, err := ResolveCaller(addr, payload, sig)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestResolveCallerRejectsMalformedSignature(t *testing.T) {
	pub, _ := testKeypair(t)
	addr := AddressFromPubKey(pub)

	_, err := ResolveCaller(addr, []byte("payload"), "zz-not-hex")
	assert.ErrorIs(t, err, ErrBadSignature)

	_, err = ResolveCaller(addr, []byte("payload"), "abcd")
	assert.ErrorIs(t, err, ErrBadSignature)
}
