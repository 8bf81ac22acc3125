package rpc

import (
	"encoding/base64"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/solkit/txkit/pkg/rate"
	"github.com/solkit/txkit/pkg/retry"
	"github.com/solkit/txkit/pkg/retry/backoff"
	"github.com/solkit/txkit/pkg/solana"
)

const (
	// Reference: https://github.com/solana-labs/solana/blob/71e9958e061493d7545bd28d4ac7a85aaed6ffbb/client/src/rpc_custom_error.rs#L11
	rpcNodeUnhealthyCode = -32005
)

type Commitment struct {
	Commitment string `json:"commitment"`
}

var (
	CommitmentProcessed = Commitment{Commitment: "processed"}
	CommitmentConfirmed = Commitment{Commitment: "confirmed"}
	CommitmentFinalized = Commitment{Commitment: "finalized"}
)

var (
	ErrNoAccountInfo = errors.New("no account info")

	errRateLimited  = errors.New("rate limited")
	errServiceError = errors.New("service error")
)

// AccountInfo contains the Solana account information.
type AccountInfo struct {
	Data       []byte
	Owner      solana.Address
	Lamports   uint64
	Executable bool
}

// Client provides an interaction with the Solana JSON RPC API.
//
// Reference: https://docs.solana.com/apps/jsonrpc-api
type Client interface {
	GetAccountInfo(solana.Address, Commitment) (AccountInfo, error)
	GetMultipleAccounts([]solana.Address, Commitment) ([]*AccountInfo, error)
	GetLatestBlockhash() (solana.Blockhash, uint64, error)
	GetMinimumBalanceForRentExemption(size uint64) (lamports uint64, err error)
	GetSlot(Commitment) (uint64, error)
}

type client struct {
	log     *logrus.Entry
	client  jsonrpc.RPCClient
	limiter rate.Limiter
	retrier retry.Retrier

	blockMu     sync.RWMutex
	blockhash   solana.Blockhash
	blockHeight uint64
	lastWrite   time.Time
}

// New returns a client using the specified endpoint.
func New(endpoint string) Client {
	return NewWithRPCOptions(endpoint, nil)
}

// NewWithLimiter returns a client whose outbound calls are gated by the
// provided limiter, keyed by RPC method.
func NewWithLimiter(endpoint string, limiter rate.Limiter) Client {
	c := NewWithRPCOptions(endpoint, nil).(*client)
	c.limiter = limiter
	return c
}

// NewWithRPCOptions returns a client configured with the specified RPC options.
func NewWithRPCOptions(endpoint string, opts *jsonrpc.RPCClientOpts) Client {
	return &client{
		log:     logrus.StandardLogger().WithField("type", "solana/rpc/client"),
		client:  jsonrpc.NewClientWithOpts(endpoint, opts),
		limiter: &rate.NoLimiter{},
		retrier: retry.NewRetrier(
			retry.RetriableErrors(errRateLimited, errServiceError),
			retry.Limit(3),
			retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), 10*time.Second, 0.1),
		),
	}
}

func (c *client) call(out interface{}, method string, params ...interface{}) error {
	_, err := c.retrier.Retry(func() error {
		if allowed, err := c.limiter.Allow(method); err == nil && !allowed {
			c.log.WithField("method", method).Debug("locally rate limited")
			return errRateLimited
		}

		err := c.client.CallFor(out, method, params...)
		if err == nil {
			return nil
		}

		return c.handleRpcError(method, err)
	})

	return err
}

func (c *client) handleRpcError(method string, err error) error {
	rpcErr, ok := err.(*jsonrpc.RPCError)
	if !ok {
		return err
	}
	if rpcErr.Code == 429 {
		c.log.WithField("method", method).Error("rate limited")
		return errRateLimited
	}
	if rpcErr.Code >= 500 || rpcErr.Code == rpcNodeUnhealthyCode {
		return errServiceError
	}

	return err
}

func (c *client) GetMinimumBalanceForRentExemption(dataSize uint64) (lamports uint64, err error) {
	if err := c.call(&lamports, "getMinimumBalanceForRentExemption", dataSize); err != nil {
		return 0, errors.Wrapf(err, "getMinimumBalanceForRentExemption() failed to send request")
	}

	return lamports, nil
}

func (c *client) GetSlot(commitment Commitment) (slot uint64, err error) {
	// note: we have to wrap the commitment in an []interface{} otherwise the
	//       solana RPC node complains. Technically this is a violation of the
	//       JSON RPC v2.0 spec.
	if err := c.call(&slot, "getSlot", []interface{}{commitment}); err != nil {
		return 0, errors.Wrapf(err, "getSlot() failed to send request")
	}

	return slot, nil
}

// GetLatestBlockhash returns the latest blockhash along with the last block
// height at which it will be valid, suitable for a BlockhashLifetime.
func (c *client) GetLatestBlockhash() (solana.Blockhash, uint64, error) {
	// To avoid having thrashing around a similar periodic interval, we
	// randomize when we refresh our block hash.
	window := time.Duration(float64(2*time.Second) * (0.8 + rand.Float64()))

	var hash solana.Blockhash
	var height uint64

	c.blockMu.RLock()
	if time.Since(c.lastWrite) < window {
		hash = c.blockhash
		height = c.blockHeight
	}
	c.blockMu.RUnlock()

	if !hash.IsZero() {
		return hash, height, nil
	}

	type response struct {
		Value struct {
			Blockhash            string `json:"blockhash"`
			LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
		} `json:"value"`
	}

	var resp response
	if err := c.call(&resp, "getLatestBlockhash"); err != nil {
		return hash, 0, errors.Wrapf(err, "getLatestBlockhash() failed to send request")
	}

	hash, err := solana.NewBlockhashFromBase58(resp.Value.Blockhash)
	if err != nil {
		return hash, 0, errors.Wrap(err, "invalid base58 encoded hash in response")
	}
	height = resp.Value.LastValidBlockHeight

	c.blockMu.Lock()
	c.blockhash = hash
	c.blockHeight = height
	c.lastWrite = time.Now()
	c.blockMu.Unlock()

	return hash, height, nil
}

func (c *client) GetAccountInfo(account solana.Address, commitment Commitment) (accountInfo AccountInfo, err error) {
	type rpcResponse struct {
		Value *struct {
			Lamports   uint64   `json:"lamports"`
			Owner      string   `json:"owner"`
			Data       []string `json:"data"`
			Executable bool     `json:"executable"`
		} `json:"value"`
	}

	rpcConfig := struct {
		Commitment Commitment `json:"commitment"`
		Encoding   string     `json:"encoding"`
	}{
		Commitment: commitment,
		Encoding:   "base64",
	}

	var resp rpcResponse
	if err := c.call(&resp, "getAccountInfo", account.String(), rpcConfig); err != nil {
		return accountInfo, errors.Wrap(err, "getAccountInfo() failed to send request")
	}

	if resp.Value == nil {
		return accountInfo, ErrNoAccountInfo
	}

	accountInfo.Owner, err = solana.NewAddressFromBase58(resp.Value.Owner)
	if err != nil {
		return accountInfo, errors.Wrap(err, "invalid base58 encoded owner")
	}

	accountInfo.Data, err = base64.StdEncoding.DecodeString(resp.Value.Data[0])
	if err != nil {
		return accountInfo, errors.Wrap(err, "invalid base64 encoded data")
	}

	accountInfo.Lamports = resp.Value.Lamports
	accountInfo.Executable = resp.Value.Executable

	return accountInfo, nil
}

func (c *client) GetMultipleAccounts(accounts []solana.Address, commitment Commitment) ([]*AccountInfo, error) {
	b58Accounts := make([]string, len(accounts))
	for i := range accounts {
		b58Accounts[i] = accounts[i].String()
	}

	rpcConfig := struct {
		Commitment Commitment `json:"commitment"`
		Encoding   string     `json:"encoding"`
	}{
		Commitment: commitment,
		Encoding:   "base64",
	}

	type rpcResponse struct {
		Value []*struct {
			Lamports   uint64   `json:"lamports"`
			Owner      string   `json:"owner"`
			Data       []string `json:"data"`
			Executable bool     `json:"executable"`
		} `json:"value"`
	}

	var resp rpcResponse
	if err := c.call(&resp, "getMultipleAccounts", b58Accounts, rpcConfig); err != nil {
		return nil, errors.Wrap(err, "getMultipleAccounts() failed to send request")
	}

	if len(resp.Value) != len(accounts) {
		return nil, errors.Errorf("received %d accounts, requested %d", len(resp.Value), len(accounts))
	}

	// Accounts that don't exist come back as null and stay nil here.
	infos := make([]*AccountInfo, len(accounts))
	for i, value := range resp.Value {
		if value == nil {
			continue
		}

		owner, err := solana.NewAddressFromBase58(value.Owner)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid base58 encoded owner for account %s", accounts[i])
		}

		data, err := base64.StdEncoding.DecodeString(value.Data[0])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid base64 encoded data for account %s", accounts[i])
		}

		infos[i] = &AccountInfo{
			Data:       data,
			Owner:      owner,
			Lamports:   value.Lamports,
			Executable: value.Executable,
		}
	}

	return infos, nil
}
