package compute_budget

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solkit/txkit/pkg/pointer"
	"github.com/solkit/txkit/pkg/solana"
)

func TestProgramAddress(t *testing.T) {
	assert.Equal(t, "ComputeBudget111111111111111111111111111111", ProgramAddress.String())
}

func TestSetComputeUnitLimit(t *testing.T) {
	instruction := SetComputeUnitLimit(1_400_000)

	assert.Equal(t, ProgramAddress, instruction.ProgramAddress)
	assert.Empty(t, instruction.Accounts)
	assert.Equal(t, []byte{2, 0x40, 0x5c, 0x15, 0x00}, instruction.Data)

	limit, err := ParseSetComputeUnitLimitIxnData(instruction.Data)
	require.NoError(t, err)
	assert.EqualValues(t, 1_400_000, limit)

	_, err = ParseSetComputeUnitLimitIxnData(instruction.Data[:4])
	assert.Error(t, err)

	_, err = ParseSetComputeUnitPriceIxnData(instruction.Data)
	assert.Error(t, err)
}

func TestSetComputeUnitPrice(t *testing.T) {
	instruction := SetComputeUnitPrice(10_000)

	assert.Equal(t, ProgramAddress, instruction.ProgramAddress)
	assert.Empty(t, instruction.Accounts)
	assert.Equal(t, []byte{3, 0x10, 0x27, 0, 0, 0, 0, 0, 0}, instruction.Data)

	price, err := ParseSetComputeUnitPriceIxnData(instruction.Data)
	require.NoError(t, err)
	assert.EqualValues(t, 10_000, price)

	_, err = ParseSetComputeUnitPriceIxnData(instruction.Data[:8])
	assert.Error(t, err)

	_, err = ParseSetComputeUnitLimitIxnData(instruction.Data)
	assert.Error(t, err)
}

func TestRequestHeapFrame(t *testing.T) {
	instruction := RequestHeapFrame(256 * 1024)

	assert.Equal(t, ProgramAddress, instruction.ProgramAddress)
	assert.Empty(t, instruction.Accounts)
	assert.Equal(t, []byte{1, 0, 0, 4, 0}, instruction.Data)

	size, err := ParseRequestHeapFrameIxnData(instruction.Data)
	require.NoError(t, err)
	assert.EqualValues(t, 256*1024, size)
}

func TestSetLoadedAccountsDataSizeLimit(t *testing.T) {
	instruction := SetLoadedAccountsDataSizeLimit(32 * 1024)

	assert.Equal(t, ProgramAddress, instruction.ProgramAddress)
	assert.Empty(t, instruction.Accounts)
	assert.Equal(t, []byte{4, 0, 0x80, 0, 0}, instruction.Data)

	limit, err := ParseSetLoadedAccountsDataSizeLimitIxnData(instruction.Data)
	require.NoError(t, err)
	assert.EqualValues(t, 32*1024, limit)
}

func TestConfigFromInstructions(t *testing.T) {
	otherProgram := generateAddress(t)
	payer := generateAddress(t)

	instructions := []solana.Instruction{
		solana.NewInstruction(otherProgram, []byte{2, 1, 2, 3, 4}, solana.NewAccountMeta(payer, solana.RoleWritableSigner)),
		SetComputeUnitPrice(5_000),
		SetComputeUnitLimit(200_000),
		SetComputeUnitLimit(400_000),
	}

	config := ConfigFromInstructions(instructions)
	require.NotNil(t, config)

	require.NotNil(t, config.PriorityFeeLamports)
	assert.EqualValues(t, 5_000, *config.PriorityFeeLamports)

	// Later settings overwrite earlier ones.
	require.NotNil(t, config.ComputeUnitLimit)
	assert.EqualValues(t, 400_000, *config.ComputeUnitLimit)

	assert.Nil(t, config.LoadedAccountsDataSizeLimit)
	assert.Nil(t, config.HeapSize)

	// Instructions for other programs never produce a config, even when
	// the data happens to look like a compute budget command.
	assert.Nil(t, ConfigFromInstructions(instructions[:1]))
	assert.Nil(t, ConfigFromInstructions(nil))
}

func TestInstructionsFromConfig(t *testing.T) {
	assert.Nil(t, InstructionsFromConfig(nil))
	assert.Nil(t, InstructionsFromConfig(&solana.TransactionConfig{}))

	config := &solana.TransactionConfig{
		PriorityFeeLamports:         pointer.Uint64(1_000),
		ComputeUnitLimit:            pointer.Uint32(150_000),
		LoadedAccountsDataSizeLimit: pointer.Uint32(64 * 1024),
		HeapSize:                    pointer.Uint32(256 * 1024),
	}

	instructions := InstructionsFromConfig(config)
	require.Len(t, instructions, 4)
	for _, instruction := range instructions {
		assert.Equal(t, ProgramAddress, instruction.ProgramAddress)
	}

	roundTripped := ConfigFromInstructions(instructions)
	require.NotNil(t, roundTripped)
	assert.Equal(t, config, roundTripped)
}

func generateAddress(t *testing.T) solana.Address {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	address, err := solana.NewAddressFromBytes(pub)
	require.NoError(t, err)
	return address
}
