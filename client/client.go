package client

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/holiman/uint256"

	"ftl/identity"
	"ftl/jsonrpc"
	"ftl/jsonx"
	"ftl/utils"
)

type Config struct {
	// Endpoint is the node's JSON-RPC base URL, e.g. http://localhost:9090
	Endpoint string
}

// Client talks JSON-RPC to a token node. Mutating calls sign the operation
// payload with the supplied private key; the node resolves the caller from
// that signature.
type Client struct {
	cfg        Config
	httpClient *http.Client
	nextID     int64
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int64       `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcErrorObj struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string       `json:"jsonrpc"`
	ID      int64        `json:"id"`
	Result  jsonRawValue `json:"result"`
	Error   *rpcErrorObj `json:"error"`
}

type jsonRawValue []byte

func (v *jsonRawValue) UnmarshalJSON(data []byte) error {
	*v = append((*v)[:0], data...)
	return nil
}

func (c *Client) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	c.nextID++
	body, err := jsonx.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("could not encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rpc call %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}

	var rpcResp rpcResponse
	if err := jsonx.Unmarshal(raw, &rpcResp); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if result != nil {
		if err := jsonx.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("could not decode result: %w", err)
		}
	}
	return nil
}

// GetTotalSupply returns the fixed total supply
func (c *Client) GetTotalSupply(ctx context.Context) (*uint256.Int, error) {
	var res jsonrpc.GetTotalSupplyResponse
	if err := c.call(ctx, jsonrpc.MethodGetTotalSupply, nil, &res); err != nil {
		return nil, err
	}
	return utils.ParseAmount(res.TotalSupply)
}

// GetBalance returns the balance of addr
func (c *Client) GetBalance(ctx context.Context, addr string) (*uint256.Int, error) {
	var res jsonrpc.GetBalanceResponse
	if err := c.call(ctx, jsonrpc.MethodGetBalance, jsonrpc.GetBalanceRequest{Address: addr}, &res); err != nil {
		return nil, err
	}
	return utils.ParseAmount(res.Balance)
}

// GetAllowance returns the remaining grant from owner to spender
func (c *Client) GetAllowance(ctx context.Context, owner, spender string) (*uint256.Int, error) {
	var res jsonrpc.GetAllowanceResponse
	if err := c.call(ctx, jsonrpc.MethodGetAllowance, jsonrpc.GetAllowanceRequest{Owner: owner, Spender: spender}, &res); err != nil {
		return nil, err
	}
	return utils.ParseAmount(res.Allowance)
}

// GetLedgerInfo returns the audit view of the ledger
func (c *Client) GetLedgerInfo(ctx context.Context) (*jsonrpc.GetLedgerInfoResponse, error) {
	var res jsonrpc.GetLedgerInfoResponse
	if err := c.call(ctx, jsonrpc.MethodGetLedgerInfo, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Transfer signs and submits a direct transfer from the key holder
func (c *Client) Transfer(ctx context.Context, priv ed25519.PrivateKey, to string, amount *uint256.Int) error {
	msg := jsonrpc.TransferMsg{
		Sender:    identity.AddressFromPrivKey(priv),
		Recipient: to,
		Amount:    amount.Dec(),
		Timestamp: uint64(time.Now().Unix()),
	}
	sig, err := signMsg(priv, msg)
	if err != nil {
		return err
	}
	return c.call(ctx, jsonrpc.MethodTransfer, jsonrpc.SignedTransferParams{Msg: msg, Signature: sig}, &jsonrpc.OpResponse{})
}

// Approve signs and submits an allowance grant from the key holder
func (c *Client) Approve(ctx context.Context, priv ed25519.PrivateKey, spender string, amount *uint256.Int) error {
	msg := jsonrpc.ApproveMsg{
		Sender:    identity.AddressFromPrivKey(priv),
		Spender:   spender,
		Amount:    amount.Dec(),
		Timestamp: uint64(time.Now().Unix()),
	}
	sig, err := signMsg(priv, msg)
	if err != nil {
		return err
	}
	return c.call(ctx, jsonrpc.MethodApprove, jsonrpc.SignedApproveParams{Msg: msg, Signature: sig}, &jsonrpc.OpResponse{})
}

// TransferFrom signs and submits a delegated transfer; the key holder is the
// spender drawing down a grant from owner.
func (c *Client) TransferFrom(ctx context.Context, priv ed25519.PrivateKey, owner, to string, amount *uint256.Int) error {
	msg := jsonrpc.TransferFromMsg{
		Sender:    identity.AddressFromPrivKey(priv),
		Owner:     owner,
		Recipient: to,
		Amount:    amount.Dec(),
		Timestamp: uint64(time.Now().Unix()),
	}
	sig, err := signMsg(priv, msg)
	if err != nil {
		return err
	}
	return c.call(ctx, jsonrpc.MethodTransferFrom, jsonrpc.SignedTransferFromParams{Msg: msg, Signature: sig}, &jsonrpc.OpResponse{})
}

// signMsg signs the canonical JSON encoding of msg, matching what the node
// verifies against
func signMsg(priv ed25519.PrivateKey, msg interface{}) (string, error) {
	payload, err := jsonx.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("could not encode payload: %w", err)
	}
	return identity.Sign(priv, payload), nil
}
