package solana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileTransactionMessage(t *testing.T) {
	addresses := generateAddresses(t, 3)
	feePayer, account, program := addresses[0], addresses[1], addresses[2]
	blockhash := generateBlockhash(t)

	message, err := NewTransactionMessage(VersionLegacy)
	require.NoError(t, err)
	message, err = message.
		WithFeePayer(feePayer).
		WithBlockhashLifetime(blockhash, 100).
		AppendInstruction(NewInstruction(
			program,
			[]byte{1, 2, 3},
			NewAccountMeta(account, RoleWritableSigner),
		))
	require.NoError(t, err)

	compiled, err := CompileTransactionMessage(message)
	require.NoError(t, err)

	assert.Equal(t, VersionLegacy, compiled.Version)
	assert.Equal(t, MessageHeader{
		NumSignerAccounts:            2,
		NumReadonlySignerAccounts:    0,
		NumReadonlyNonSignerAccounts: 1,
	}, compiled.Header)
	assert.Equal(t, []Address{feePayer, account, program}, compiled.StaticAccounts)

	require.NotNil(t, compiled.LifetimeToken)
	assert.Equal(t, blockhash, *compiled.LifetimeToken)

	require.Len(t, compiled.Instructions, 1)
	assert.Equal(t, CompiledInstruction{
		ProgramAddressIndex: 2,
		AccountIndices:      []uint8{1},
		Data:                []byte{1, 2, 3},
	}, compiled.Instructions[0])

	assert.Nil(t, compiled.AddressTableLookups)
	assert.Nil(t, compiled.Config)
}

func TestCompile_MissingFeePayer(t *testing.T) {
	addresses := generateAddresses(t, 1)

	message, err := NewTransactionMessage(VersionLegacy)
	require.NoError(t, err)
	message, err = message.AppendInstruction(NewInstruction(addresses[0], nil))
	require.NoError(t, err)

	_, err = CompileTransactionMessage(message)
	assert.ErrorIs(t, err, ErrFeePayerMissing)
}

func TestCompile_UnsupportedVersion(t *testing.T) {
	feePayer := generateAddresses(t, 1)[0]
	message := &TransactionMessage{version: Version(9), feePayer: &feePayer}

	_, err := CompileTransactionMessage(message)
	var versionErr *UnsupportedVersionError
	require.ErrorAs(t, err, &versionErr)
	assert.Equal(t, Version(9), versionErr.Version)
}

func TestCompile_OmitsEmptyInstructionFields(t *testing.T) {
	addresses := generateAddresses(t, 2)
	feePayer, program := addresses[0], addresses[1]

	message, err := NewTransactionMessage(VersionLegacy)
	require.NoError(t, err)
	message, err = message.
		WithFeePayer(feePayer).
		AppendInstruction(NewInstruction(program, nil))
	require.NoError(t, err)

	compiled, err := CompileTransactionMessage(message)
	require.NoError(t, err)

	require.Len(t, compiled.Instructions, 1)
	assert.EqualValues(t, 1, compiled.Instructions[0].ProgramAddressIndex)
	assert.Nil(t, compiled.Instructions[0].AccountIndices)
	assert.Nil(t, compiled.Instructions[0].Data)

	// No lifetime constraint was attached, so there is no token either.
	assert.Nil(t, compiled.LifetimeToken)
}

func TestCompile_LookupTables(t *testing.T) {
	addresses := generateAddresses(t, 6)
	var (
		feePayer       = addresses[0]
		program        = addresses[1]
		table          = addresses[2]
		lookupWritable = addresses[3]
		lookupReadonly = addresses[4]
		staticAccount  = addresses[5]
	)

	build := func(t *testing.T, version Version) *TransactionMessage {
		message, err := NewTransactionMessage(version)
		require.NoError(t, err)
		message, err = message.
			WithFeePayer(feePayer).
			AppendInstruction(NewInstruction(
				program,
				[]byte{9},
				NewAccountMeta(staticAccount, RoleWritable),
				NewLookupAccountMeta(lookupWritable, RoleWritable, table, 2),
				NewLookupAccountMeta(lookupReadonly, RoleReadonly, table, 7),
			))
		require.NoError(t, err)
		return message
	}

	t.Run("v0", func(t *testing.T) {
		compiled, err := CompileTransactionMessage(build(t, Version0))
		require.NoError(t, err)

		// Lookup-sourced accounts stay out of the static list but are
		// indexable right after it.
		assert.Equal(t, []Address{feePayer, staticAccount, program}, compiled.StaticAccounts)
		assert.Equal(t, MessageHeader{
			NumSignerAccounts:            1,
			NumReadonlySignerAccounts:    0,
			NumReadonlyNonSignerAccounts: 1,
		}, compiled.Header)

		require.Len(t, compiled.Instructions, 1)
		assert.EqualValues(t, 2, compiled.Instructions[0].ProgramAddressIndex)
		assert.Equal(t, []uint8{1, 3, 4}, compiled.Instructions[0].AccountIndices)

		assert.Equal(t, []AddressTableLookup{{
			LookupTableAddress: table,
			WritableIndexes:    []uint8{2},
			ReadonlyIndexes:    []uint8{7},
		}}, compiled.AddressTableLookups)
	})

	t.Run("legacy never emits lookups", func(t *testing.T) {
		compiled, err := CompileTransactionMessage(build(t, VersionLegacy))
		require.NoError(t, err)
		assert.Nil(t, compiled.AddressTableLookups)
	})
}

func TestCompile_V1Config(t *testing.T) {
	addresses := generateAddresses(t, 2)
	feePayer, program := addresses[0], addresses[1]

	fee := uint64(7000)
	heap := uint32(65536)
	config := &TransactionConfig{
		PriorityFeeLamports: &fee,
		HeapSize:            &heap,
	}

	build := func(t *testing.T, version Version, config *TransactionConfig) *CompiledTransactionMessage {
		message, err := NewTransactionMessage(version)
		require.NoError(t, err)
		message, err = message.
			WithFeePayer(feePayer).
			WithConfig(config).
			AppendInstruction(NewInstruction(program, nil))
		require.NoError(t, err)

		compiled, err := CompileTransactionMessage(message)
		require.NoError(t, err)
		return compiled
	}

	t.Run("present fields pack in mask order", func(t *testing.T) {
		compiled := build(t, Version1, config)
		require.NotNil(t, compiled.Config)
		assert.Equal(t, configMaskPriorityFee|configMaskHeapSize, compiled.Config.Mask)
		assert.Equal(t, []ConfigValue{
			{Width: Width64, Value: 7000},
			{Width: Width32, Value: 65536},
		}, compiled.Config.Values)
	})

	t.Run("v1 always carries a config section", func(t *testing.T) {
		compiled := build(t, Version1, nil)
		require.NotNil(t, compiled.Config)
		assert.Zero(t, compiled.Config.Mask)
		assert.Empty(t, compiled.Config.Values)
	})

	t.Run("other versions drop the config", func(t *testing.T) {
		compiled := build(t, Version0, config)
		assert.Nil(t, compiled.Config)
	})
}

func TestCompile_AccountIndexOverflow(t *testing.T) {
	addresses := generateAddresses(t, maxAccounts+1)
	feePayer, program := addresses[0], addresses[1]

	// Fee payer, program, and 254 metas hit the 256 account ceiling.
	metas := make([]AccountMeta, 254)
	for i := range metas {
		metas[i] = NewAccountMeta(addresses[2+i], RoleReadonly)
	}

	message, err := NewTransactionMessage(VersionLegacy)
	require.NoError(t, err)
	message, err = message.
		WithFeePayer(feePayer).
		AppendInstruction(NewInstruction(program, nil, metas...))
	require.NoError(t, err)

	compiled, err := CompileTransactionMessage(message)
	require.NoError(t, err)
	assert.Len(t, compiled.StaticAccounts, maxAccounts)

	// One more unique account pushes indices past a single byte.
	overflowing, err := message.AppendInstruction(NewInstruction(
		program,
		nil,
		NewAccountMeta(addresses[maxAccounts], RoleReadonly),
	))
	require.NoError(t, err)

	_, err = CompileTransactionMessage(overflowing)
	var overflowErr *AccountIndexOverflowError
	require.ErrorAs(t, err, &overflowErr)
	assert.Equal(t, maxAccounts+1, overflowErr.NumAccounts)
}
