package jsonrpc

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/holiman/uint256"

	"ftl/exception"
	"ftl/identity"
	"ftl/jsonx"
	"ftl/ledger"
	"ftl/logx"
	"ftl/token"
	"ftl/utils"
)

// --- Params/Results ---

// TransferMsg is the signed payload of a direct transfer. The signature in
// the enclosing params covers the canonical JSON encoding of this struct.
type TransferMsg struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Timestamp uint64 `json:"timestamp"`
}

type SignedTransferParams struct {
	Msg       TransferMsg `json:"msg"`
	Signature string      `json:"signature"`
}

// ApproveMsg is the signed payload of an allowance grant
type ApproveMsg struct {
	Sender    string `json:"sender"`
	Spender   string `json:"spender"`
	Amount    string `json:"amount"`
	Timestamp uint64 `json:"timestamp"`
}

type SignedApproveParams struct {
	Msg       ApproveMsg `json:"msg"`
	Signature string     `json:"signature"`
}

// TransferFromMsg is the signed payload of a delegated transfer; Sender is
// the spender exercising the grant, Owner the account being drawn from.
type TransferFromMsg struct {
	Sender    string `json:"sender"`
	Owner     string `json:"owner"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Timestamp uint64 `json:"timestamp"`
}

type SignedTransferFromParams struct {
	Msg       TransferFromMsg `json:"msg"`
	Signature string          `json:"signature"`
}

type OpResponse struct {
	Ok bool `json:"ok"`
}

type GetBalanceRequest struct {
	Address string `json:"address"`
}

type GetBalanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

type GetAllowanceRequest struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
}

type GetAllowanceResponse struct {
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Allowance string `json:"allowance"`
}

type GetTotalSupplyResponse struct {
	TotalSupply string `json:"total_supply"`
}

// GetLedgerInfoResponse is the audit surface: supply, the live sum of all
// balances, and the deterministic state digest.
type GetLedgerInfoResponse struct {
	TotalSupply string `json:"total_supply"`
	SumBalances string `json:"sum_balances"`
	StateDigest string `json:"state_digest"`
	Accounts    int    `json:"accounts"`
}

// --- Server ---

type Server struct {
	addr    string
	engine  *token.Engine
	ledger  *ledger.Ledger
	httpSrv *http.Server
}

func NewServer(addr string, engine *token.Engine, l *ledger.Ledger) *Server {
	return &Server{
		addr:   addr,
		engine: engine,
		ledger: l,
	}
}

func (s *Server) Start() {
	methods := s.buildMethodMap()
	jh := jhttp.NewBridge(methods, &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})

	mux := http.NewServeMux()
	mux.Handle("/", jh)

	s.httpSrv = &http.Server{Addr: s.addr, Handler: mux}
	exception.SafeGo("jsonrpc-server", func() {
		logx.Info("JSONRPC", fmt.Sprintf("Listening on %s", s.addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Error("JSONRPC", "Server stopped:", err.Error())
		}
	})
}

// Stop shuts the HTTP listener down gracefully
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Build jrpc2 method map
func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		MethodGetTotalSupply: handler.New(func(ctx context.Context) (*GetTotalSupplyResponse, error) {
			return &GetTotalSupplyResponse{TotalSupply: s.engine.TotalSupply().Dec()}, nil
		}),
		MethodGetBalance: handler.New(func(ctx context.Context, p GetBalanceRequest) (*GetBalanceResponse, error) {
			balance, err := s.engine.BalanceOf(p.Address)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &GetBalanceResponse{Address: p.Address, Balance: balance.Dec()}, nil
		}),
		MethodGetAllowance: handler.New(func(ctx context.Context, p GetAllowanceRequest) (*GetAllowanceResponse, error) {
			allowance, err := s.engine.Allowance(p.Owner, p.Spender)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &GetAllowanceResponse{Owner: p.Owner, Spender: p.Spender, Allowance: allowance.Dec()}, nil
		}),
		MethodGetLedgerInfo: handler.New(func(ctx context.Context) (*GetLedgerInfoResponse, error) {
			return s.rpcGetLedgerInfo()
		}),
		MethodTransfer: handler.New(func(ctx context.Context, p SignedTransferParams) (*OpResponse, error) {
			return s.rpcTransfer(p)
		}),
		MethodApprove: handler.New(func(ctx context.Context, p SignedApproveParams) (*OpResponse, error) {
			return s.rpcApprove(p)
		}),
		MethodTransferFrom: handler.New(func(ctx context.Context, p SignedTransferFromParams) (*OpResponse, error) {
			return s.rpcTransferFrom(p)
		}),
	}
}

func (s *Server) rpcTransfer(p SignedTransferParams) (*OpResponse, error) {
	caller, amount, err := s.resolveSigned(p.Msg.Sender, p.Msg, p.Signature, p.Msg.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.engine.Transfer(caller, p.Msg.Recipient, amount); err != nil {
		return nil, toJRPC2Error(err)
	}
	return &OpResponse{Ok: true}, nil
}

func (s *Server) rpcApprove(p SignedApproveParams) (*OpResponse, error) {
	caller, amount, err := s.resolveSigned(p.Msg.Sender, p.Msg, p.Signature, p.Msg.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.engine.Approve(caller, p.Msg.Spender, amount); err != nil {
		return nil, toJRPC2Error(err)
	}
	return &OpResponse{Ok: true}, nil
}

func (s *Server) rpcTransferFrom(p SignedTransferFromParams) (*OpResponse, error) {
	caller, amount, err := s.resolveSigned(p.Msg.Sender, p.Msg, p.Signature, p.Msg.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.engine.TransferFrom(caller, p.Msg.Owner, p.Msg.Recipient, amount); err != nil {
		return nil, toJRPC2Error(err)
	}
	return &OpResponse{Ok: true}, nil
}

func (s *Server) rpcGetLedgerInfo() (*GetLedgerInfoResponse, error) {
	sum, err := s.ledger.SumBalances()
	if err != nil {
		return nil, toJRPC2Error(err)
	}
	digest, err := s.ledger.StateDigest()
	if err != nil {
		return nil, toJRPC2Error(err)
	}
	accounts, err := s.ledger.ListBalances()
	if err != nil {
		return nil, toJRPC2Error(err)
	}
	return &GetLedgerInfoResponse{
		TotalSupply: s.ledger.TotalSupply().Dec(),
		SumBalances: sum.Dec(),
		StateDigest: hex.EncodeToString(digest[:]),
		Accounts:    len(accounts),
	}, nil
}

// resolveSigned verifies the signature over the canonical JSON encoding of
// msg, resolves the caller, and parses the amount. This is the only door
// into the engine's mutating operations.
func (s *Server) resolveSigned(sender string, msg interface{}, sigHex string, amountStr string) (string, *uint256.Int, error) {
	payload, err := jsonx.Marshal(msg)
	if err != nil {
		return "", nil, jrpc2.Errorf(CodeInternal, "could not encode payload: %v", err)
	}

	caller, err := identity.ResolveCaller(sender, payload, sigHex)
	if err != nil {
		logx.Warn("JSONRPC", fmt.Sprintf("Rejected operation from %s: %v", sender, err))
		return "", nil, jrpc2.Errorf(CodeUnauthorized, "%v", err)
	}

	amount, err := utils.ParseAmount(amountStr)
	if err != nil {
		return "", nil, jrpc2.Errorf(CodeInvalidAmount, "invalid amount %q", amountStr)
	}

	return caller, amount, nil
}

// toJRPC2Error maps domain failures to typed JSON-RPC errors
func toJRPC2Error(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return jrpc2.Errorf(CodeInsufficientBalance, "%v", err)
	case errors.Is(err, ledger.ErrInsufficientAllowance):
		return jrpc2.Errorf(CodeInsufficientAllowance, "%v", err)
	default:
		return jrpc2.Errorf(CodeInternal, "%v", err)
	}
}
