package rpc

import (
	"crypto/ed25519"
	"crypto/rand"
	"math"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solkit/txkit/pkg/solana"
	address_lookup_table "github.com/solkit/txkit/pkg/solana/addresslookuptable"
)

type fakeClient struct {
	mu            sync.Mutex
	accounts      map[solana.Address][]byte
	accountCalls  int
	multipleCalls int
}

func (f *fakeClient) GetAccountInfo(account solana.Address, _ Commitment) (AccountInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.accountCalls++
	data, ok := f.accounts[account]
	if !ok {
		return AccountInfo{}, ErrNoAccountInfo
	}
	return AccountInfo{Data: data, Owner: address_lookup_table.ProgramAddress}, nil
}

func (f *fakeClient) GetMultipleAccounts(accounts []solana.Address, _ Commitment) ([]*AccountInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.multipleCalls++
	infos := make([]*AccountInfo, len(accounts))
	for i, account := range accounts {
		if data, ok := f.accounts[account]; ok {
			infos[i] = &AccountInfo{Data: data, Owner: address_lookup_table.ProgramAddress}
		}
	}
	return infos, nil
}

func (f *fakeClient) GetLatestBlockhash() (solana.Blockhash, uint64, error) {
	return solana.Blockhash{}, 0, errors.New("not implemented")
}

func (f *fakeClient) GetMinimumBalanceForRentExemption(uint64) (uint64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeClient) GetSlot(Commitment) (uint64, error) {
	return 0, errors.New("not implemented")
}

func marshalTable(addresses []solana.Address) []byte {
	account := &address_lookup_table.AddressLookupTableAccount{
		DeactivationSlot: math.MaxUint64,
		Addresses:        addresses,
	}
	return account.Marshal()
}

func TestTableLoader_LoadCaches(t *testing.T) {
	table := generateAddresses(t, 1)[0]
	entries := generateAddresses(t, 2)

	fake := &fakeClient{accounts: map[solana.Address][]byte{table: marshalTable(entries)}}
	loader := NewTableLoader(fake)

	loaded, err := loader.Load(table, table)
	require.NoError(t, err)
	assert.Equal(t, map[solana.Address][]solana.Address{table: entries}, loaded)
	assert.Equal(t, 1, fake.accountCalls)

	loaded, err = loader.Load(table)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded[table])
	assert.Equal(t, 1, fake.accountCalls)
}

func TestTableLoader_MissingTableOmitted(t *testing.T) {
	tables := generateAddresses(t, 2)
	entries := generateAddresses(t, 1)

	fake := &fakeClient{accounts: map[solana.Address][]byte{tables[0]: marshalTable(entries)}}
	loader := NewTableLoader(fake)

	loaded, err := loader.Load(tables...)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, entries, loaded[tables[0]])
}

func TestTableLoader_InvalidTableAccount(t *testing.T) {
	table := generateAddresses(t, 1)[0]

	fake := &fakeClient{accounts: map[solana.Address][]byte{table: {1, 2, 3}}}
	loader := NewTableLoader(fake)

	_, err := loader.Load(table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid lookup table account")
}

func TestTableLoader_Warm(t *testing.T) {
	tables := generateAddresses(t, 2)
	entriesA := generateAddresses(t, 3)
	entriesB := generateAddresses(t, 1)

	fake := &fakeClient{accounts: map[solana.Address][]byte{
		tables[0]: marshalTable(entriesA),
		tables[1]: marshalTable(entriesB),
	}}
	loader := NewTableLoader(fake)

	require.NoError(t, loader.Warm(tables[0], tables[1], tables[0]))
	assert.Equal(t, 1, fake.multipleCalls)
	assert.Equal(t, 0, fake.accountCalls)

	loaded, err := loader.Load(tables...)
	require.NoError(t, err)
	assert.Equal(t, entriesA, loaded[tables[0]])
	assert.Equal(t, entriesB, loaded[tables[1]])
	assert.Equal(t, 0, fake.accountCalls)

	// Everything is cached, so warming again is a no-op.
	require.NoError(t, loader.Warm(tables...))
	assert.Equal(t, 1, fake.multipleCalls)
}

func TestTableLoader_BudgetEviction(t *testing.T) {
	table := generateAddresses(t, 1)[0]
	entries := generateAddresses(t, 2)

	fake := &fakeClient{accounts: map[solana.Address][]byte{table: marshalTable(entries)}}
	loader := newTableLoaderWithBudget(fake, 1)

	for i := 0; i < 2; i++ {
		loaded, err := loader.Load(table)
		require.NoError(t, err)
		assert.Equal(t, entries, loaded[table])
	}

	// The entry outweighs the budget, so each load fetches again.
	assert.Equal(t, 2, fake.accountCalls)
}

func TestTableLoader_DecompileFlow(t *testing.T) {
	table := generateAddresses(t, 1)[0]
	entries := generateAddresses(t, 3)
	payer := generateAddresses(t, 1)[0]
	program := generateAddresses(t, 1)[0]

	fake := &fakeClient{accounts: map[solana.Address][]byte{table: marshalTable(entries)}}
	loader := NewTableLoader(fake)

	message, err := solana.NewTransactionMessage(solana.Version0)
	require.NoError(t, err)

	message, err = message.WithFeePayer(payer).AppendInstruction(solana.NewInstruction(
		program,
		[]byte{1, 2, 3},
		solana.NewLookupAccountMeta(entries[2], solana.RoleWritable, table, 2),
	))
	require.NoError(t, err)

	compiled, err := solana.CompileTransactionMessage(message)
	require.NoError(t, err)
	require.Len(t, compiled.AddressTableLookups, 1)

	loaded, err := loader.Load(compiled.AddressTableLookups[0].LookupTableAddress)
	require.NoError(t, err)

	decompiled, err := solana.DecompileTransactionMessage(compiled, &solana.DecompileConfig{
		AddressesByLookupTableAddress: loaded,
	})
	require.NoError(t, err)

	instructions := decompiled.Instructions()
	require.Len(t, instructions, 1)
	require.Len(t, instructions[0].Accounts, 1)
	assert.Equal(t, entries[2], instructions[0].Accounts[0].Address)
	require.NotNil(t, instructions[0].Accounts[0].Lookup)
	assert.Equal(t, table, instructions[0].Accounts[0].Lookup.TableAddress)
	assert.EqualValues(t, 2, instructions[0].Accounts[0].Lookup.Index)
}

func generateAddresses(t *testing.T, amount int) []solana.Address {
	addresses := make([]solana.Address, amount)
	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)

		address, err := solana.NewAddressFromBytes(pub)
		require.NoError(t, err)
		addresses[i] = address
	}
	return addresses
}
