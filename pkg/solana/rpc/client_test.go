package rpc

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybbus/jsonrpc"

	"github.com/solkit/txkit/pkg/rate"
	"github.com/solkit/txkit/pkg/retry"
	"github.com/solkit/txkit/pkg/solana"
	"github.com/solkit/txkit/pkg/testutil"
)

type fakeRPCClient struct {
	calls   int
	respond func(out interface{}, method string, params ...interface{}) error
}

func (f *fakeRPCClient) Call(method string, params ...interface{}) (*jsonrpc.RPCResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRPCClient) CallRaw(request *jsonrpc.RPCRequest) (*jsonrpc.RPCResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRPCClient) CallFor(out interface{}, method string, params ...interface{}) error {
	f.calls++
	return f.respond(out, method, params...)
}

func (f *fakeRPCClient) CallBatch(requests jsonrpc.RPCRequests) (jsonrpc.RPCResponses, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRPCClient) CallBatchRaw(requests jsonrpc.RPCRequests) (jsonrpc.RPCResponses, error) {
	return nil, errors.New("not implemented")
}

func newTestClient(fake *fakeRPCClient) *client {
	return &client{
		log:     logrus.StandardLogger().WithField("type", "solana/rpc/client_test"),
		client:  fake,
		limiter: &rate.NoLimiter{},
		retrier: retry.NewRetrier(retry.Limit(1)),
	}
}

func TestClient_HandleRpcError(t *testing.T) {
	c := newTestClient(nil)

	plain := errors.New("plain")
	assert.Equal(t, plain, c.handleRpcError("getSlot", plain))

	assert.Equal(t, errRateLimited, c.handleRpcError("getSlot", &jsonrpc.RPCError{Code: 429}))
	assert.Equal(t, errServiceError, c.handleRpcError("getSlot", &jsonrpc.RPCError{Code: 502}))
	assert.Equal(t, errServiceError, c.handleRpcError("getSlot", &jsonrpc.RPCError{Code: rpcNodeUnhealthyCode}))

	invalidParam := &jsonrpc.RPCError{Code: -32602}
	assert.Equal(t, error(invalidParam), c.handleRpcError("getSlot", invalidParam))
}

func TestClient_GetSlot(t *testing.T) {
	fake := &fakeRPCClient{
		respond: func(out interface{}, method string, params ...interface{}) error {
			assert.Equal(t, "getSlot", method)
			return json.Unmarshal([]byte("1234"), out)
		},
	}

	slot, err := newTestClient(fake).GetSlot(CommitmentFinalized)
	require.NoError(t, err)
	assert.EqualValues(t, 1234, slot)
}

func TestClient_GetLatestBlockhash_Caching(t *testing.T) {
	expected, err := solana.NewBlockhashFromBytes(bytes.Repeat([]byte{7}, solana.BlockhashLength))
	require.NoError(t, err)

	fake := &fakeRPCClient{
		respond: func(out interface{}, method string, params ...interface{}) error {
			payload := fmt.Sprintf(`{"value":{"blockhash":%q,"lastValidBlockHeight":4321}}`, expected)
			return json.Unmarshal([]byte(payload), out)
		},
	}
	c := newTestClient(fake)

	hash, height, err := c.GetLatestBlockhash()
	require.NoError(t, err)
	assert.Equal(t, expected, hash)
	assert.EqualValues(t, 4321, height)

	// The second call lands inside the refresh window and is served from
	// the cached value.
	hash, height, err = c.GetLatestBlockhash()
	require.NoError(t, err)
	assert.Equal(t, expected, hash)
	assert.EqualValues(t, 4321, height)
	assert.Equal(t, 1, fake.calls)
}

func TestClient_GetAccountInfo(t *testing.T) {
	owner := solana.MustAddressFromBase58("11111111111111111111111111111111")
	data := []byte{1, 2, 3, 4}

	fake := &fakeRPCClient{
		respond: func(out interface{}, method string, params ...interface{}) error {
			payload := fmt.Sprintf(
				`{"value":{"lamports":10,"owner":%q,"data":[%q,"base64"],"executable":false}}`,
				owner, base64.StdEncoding.EncodeToString(data),
			)
			return json.Unmarshal([]byte(payload), out)
		},
	}

	info, err := newTestClient(fake).GetAccountInfo(owner, CommitmentFinalized)
	require.NoError(t, err)
	assert.Equal(t, owner, info.Owner)
	assert.Equal(t, data, info.Data)
	assert.EqualValues(t, 10, info.Lamports)
	assert.False(t, info.Executable)
}

func TestClient_GetAccountInfo_NotFound(t *testing.T) {
	fake := &fakeRPCClient{
		respond: func(out interface{}, method string, params ...interface{}) error {
			return json.Unmarshal([]byte(`{"value":null}`), out)
		},
	}

	_, err := newTestClient(fake).GetAccountInfo(solana.Address{}, CommitmentFinalized)
	assert.Equal(t, ErrNoAccountInfo, err)
}

func TestClient_GetMultipleAccounts(t *testing.T) {
	owner := solana.MustAddressFromBase58("11111111111111111111111111111111")
	data := []byte{9, 9, 9}

	fake := &fakeRPCClient{
		respond: func(out interface{}, method string, params ...interface{}) error {
			payload := fmt.Sprintf(
				`{"value":[null,{"lamports":7,"owner":%q,"data":[%q,"base64"],"executable":true}]}`,
				owner, base64.StdEncoding.EncodeToString(data),
			)
			return json.Unmarshal([]byte(payload), out)
		},
	}

	infos, err := newTestClient(fake).GetMultipleAccounts([]solana.Address{{1}, {2}}, CommitmentFinalized)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Nil(t, infos[0])
	require.NotNil(t, infos[1])
	assert.Equal(t, data, infos[1].Data)
	assert.True(t, infos[1].Executable)
}

func TestClient_GetMultipleAccounts_CountMismatch(t *testing.T) {
	fake := &fakeRPCClient{
		respond: func(out interface{}, method string, params ...interface{}) error {
			return json.Unmarshal([]byte(`{"value":[null]}`), out)
		},
	}

	_, err := newTestClient(fake).GetMultipleAccounts([]solana.Address{{1}, {2}}, CommitmentFinalized)
	assert.Error(t, err)
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) (bool, error) { return false, nil }

func TestClient_LocalRateLimit(t *testing.T) {
	reset := testutil.DisableLogging()
	defer reset()

	fake := &fakeRPCClient{
		respond: func(out interface{}, method string, params ...interface{}) error {
			t.Fatal("transport should not be reached")
			return nil
		},
	}

	c := newTestClient(fake)
	c.limiter = denyLimiter{}

	_, err := c.GetSlot(CommitmentFinalized)
	require.Error(t, err)
	assert.Equal(t, errRateLimited, errors.Cause(err))
	assert.Equal(t, 0, fake.calls)
}

func TestClient_NonRetriableError(t *testing.T) {
	rpcErr := &jsonrpc.RPCError{Code: -32602, Message: "invalid params"}
	fake := &fakeRPCClient{
		respond: func(out interface{}, method string, params ...interface{}) error {
			return rpcErr
		},
	}

	_, err := newTestClient(fake).GetSlot(CommitmentFinalized)
	require.Error(t, err)
	assert.Equal(t, error(rpcErr), errors.Cause(err))
	assert.Equal(t, 1, fake.calls)
}
