package system

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/solkit/txkit/pkg/solana"
)

const (
	commandCreateAccount uint32 = iota
	// nolint:varcheck,deadcode,unused
	commandAssign
	commandTransfer
	// nolint:varcheck,deadcode,unused
	commandCreateAccountWithSeed
	commandAdvanceNonceAccount
	commandWithdrawNonceAccount
	commandInitializeNonceAccount
	commandAuthorizeNonceAccount
	// nolint:varcheck,deadcode,unused
	commandAllocate
)

func commandPrefix(command uint32) []byte {
	prefix := make([]byte, 4)
	binary.LittleEndian.PutUint32(prefix, command)
	return prefix
}

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L58-L72
func CreateAccount(funder, address, owner solana.Address, lamports, size uint64) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] Funding account
	//   1. [WRITE, SIGNER] New account
	//
	// CreateAccount {
	//   // Number of lamports to transfer to the new account
	//   lamports: u64,
	//   // Number of bytes of memory to allocate
	//   space: u64,
	//
	//   //Address of program that will own the new account
	//   owner: Pubkey,
	// }
	//
	data := make([]byte, 4+2*8+solana.AddressLength)
	binary.LittleEndian.PutUint32(data, commandCreateAccount)
	binary.LittleEndian.PutUint64(data[4:], lamports)
	binary.LittleEndian.PutUint64(data[4+8:], size)
	copy(data[4+2*8:], owner[:])

	return solana.NewInstruction(
		ProgramAddress,
		data,
		solana.NewAccountMeta(funder, solana.RoleWritableSigner),
		solana.NewAccountMeta(address, solana.RoleWritableSigner),
	)
}

type DecompiledCreateAccount struct {
	Funder  solana.Address
	Address solana.Address

	Lamports uint64
	Size     uint64
	Owner    solana.Address
}

func DecompileCreateAccount(instruction solana.Instruction) (*DecompiledCreateAccount, error) {
	if instruction.ProgramAddress != ProgramAddress {
		return nil, solana.ErrIncorrectProgram
	}
	if !bytes.HasPrefix(instruction.Data, commandPrefix(commandCreateAccount)) {
		return nil, solana.ErrIncorrectInstruction
	}

	if len(instruction.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(instruction.Accounts))
	}
	if len(instruction.Data) != 52 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(instruction.Data))
	}

	v := &DecompiledCreateAccount{
		Funder:  instruction.Accounts[0].Address,
		Address: instruction.Accounts[1].Address,
	}
	v.Lamports = binary.LittleEndian.Uint64(instruction.Data[4:])
	v.Size = binary.LittleEndian.Uint64(instruction.Data[4+8:])
	copy(v.Owner[:], instruction.Data[4+2*8:])

	return v, nil
}

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L100-L104
func Transfer(from, to solana.Address, lamports uint64) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] Funding account
	//   1. [WRITE] Recipient account
	data := make([]byte, 4+8)
	binary.LittleEndian.PutUint32(data, commandTransfer)
	binary.LittleEndian.PutUint64(data[4:], lamports)

	return solana.NewInstruction(
		ProgramAddress,
		data,
		solana.NewAccountMeta(from, solana.RoleWritableSigner),
		solana.NewAccountMeta(to, solana.RoleWritable),
	)
}

type DecompiledTransfer struct {
	From solana.Address
	To   solana.Address

	Lamports uint64
}

func DecompileTransfer(instruction solana.Instruction) (*DecompiledTransfer, error) {
	if instruction.ProgramAddress != ProgramAddress {
		return nil, solana.ErrIncorrectProgram
	}
	if !bytes.HasPrefix(instruction.Data, commandPrefix(commandTransfer)) {
		return nil, solana.ErrIncorrectInstruction
	}

	if len(instruction.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(instruction.Accounts))
	}
	if len(instruction.Data) != 12 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(instruction.Data))
	}

	return &DecompiledTransfer{
		From:     instruction.Accounts[0].Address,
		To:       instruction.Accounts[1].Address,
		Lamports: binary.LittleEndian.Uint64(instruction.Data[4:]),
	}, nil
}

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L113-L119
func AdvanceNonce(nonce, authority solana.Address) solana.Instruction {
	// # Account references
	//   0. [WRITE] Nonce account
	//   1. [] RecentBlockhashes sysvar
	//   2. [SIGNER] Nonce authority
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, commandAdvanceNonceAccount)

	return solana.NewInstruction(
		ProgramAddress,
		data,
		solana.NewAccountMeta(nonce, solana.RoleWritable),
		solana.NewAccountMeta(RecentBlockhashesSysvar, solana.RoleReadonly),
		solana.NewAccountMeta(authority, solana.RoleReadonlySigner),
	)
}

// IsAdvanceNonce reports whether an instruction structurally matches
// AdvanceNonce output.
func IsAdvanceNonce(instruction solana.Instruction) bool {
	return solana.IsAdvanceNonceInstruction(instruction)
}

type DecompiledAdvanceNonce struct {
	Nonce     solana.Address
	Authority solana.Address
}

func DecompileAdvanceNonce(instruction solana.Instruction) (*DecompiledAdvanceNonce, error) {
	if instruction.ProgramAddress != ProgramAddress {
		return nil, solana.ErrIncorrectProgram
	}
	if !bytes.Equal(instruction.Data, commandPrefix(commandAdvanceNonceAccount)) {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(instruction.Accounts) != 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(instruction.Accounts))
	}
	if instruction.Accounts[1].Address != RecentBlockhashesSysvar {
		return nil, errors.Errorf("invalid RecentBlockhashesSysvar")
	}

	return &DecompiledAdvanceNonce{
		Nonce:     instruction.Accounts[0].Address,
		Authority: instruction.Accounts[2].Address,
	}, nil
}

// WithdrawNonce returns an instruction to withdraw funds from a nonce account
//
// The `uint64` parameter is the lamports to withdraw, which must leave the
// account balance above the rent exempt reserve or at zero.
//
// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L131
func WithdrawNonce(nonce, authority, recipient solana.Address, lamports uint64) solana.Instruction {
	// # Account references
	//   0. [WRITE] Nonce account
	//   1. [WRITE] Recipient account
	//   2. [] RecentBlockhashes sysvar
	//   3. [] Rent sysvar
	//   4. [SIGNER] Nonce authority
	data := make([]byte, 4+8)
	binary.LittleEndian.PutUint32(data, commandWithdrawNonceAccount)
	binary.LittleEndian.PutUint64(data[4:], lamports)

	return solana.NewInstruction(
		ProgramAddress,
		data,
		solana.NewAccountMeta(nonce, solana.RoleWritable),
		solana.NewAccountMeta(recipient, solana.RoleWritable),
		solana.NewAccountMeta(RecentBlockhashesSysvar, solana.RoleReadonly),
		solana.NewAccountMeta(RentSysvar, solana.RoleReadonly),
		solana.NewAccountMeta(authority, solana.RoleReadonlySigner),
	)
}

type DecompiledWithdrawNonce struct {
	Nonce     solana.Address
	Authority solana.Address
	Recipient solana.Address

	Lamports uint64
}

func DecompileWithdrawNonce(instruction solana.Instruction) (*DecompiledWithdrawNonce, error) {
	if instruction.ProgramAddress != ProgramAddress {
		return nil, solana.ErrIncorrectProgram
	}
	if !bytes.HasPrefix(instruction.Data, commandPrefix(commandWithdrawNonceAccount)) {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(instruction.Accounts) != 5 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(instruction.Accounts))
	}
	if len(instruction.Data) != 12 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(instruction.Data))
	}

	return &DecompiledWithdrawNonce{
		Nonce:     instruction.Accounts[0].Address,
		Recipient: instruction.Accounts[1].Address,
		Authority: instruction.Accounts[4].Address,
		Lamports:  binary.LittleEndian.Uint64(instruction.Data[4:]),
	}, nil
}

// InitializeNonce returns an instruction to change the state of an
// Uninitialized nonce account to Initialized, setting the nonce value
//
// The authority parameter specifies the entity authorized to execute nonce
// instructions on the account
//
// No signatures are required to execute this instruction, enabling derived
// nonce account addresses
//
// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L146
func InitializeNonce(nonce, authority solana.Address) solana.Instruction {
	// # Account references
	//   0. [WRITE] Nonce account
	//   1. [] RecentBlockhashes sysvar
	//   2. [] Rent sysvar
	data := make([]byte, 4+solana.AddressLength)
	binary.LittleEndian.PutUint32(data, commandInitializeNonceAccount)
	copy(data[4:], authority[:])

	return solana.NewInstruction(
		ProgramAddress,
		data,
		solana.NewAccountMeta(nonce, solana.RoleWritable),
		solana.NewAccountMeta(RecentBlockhashesSysvar, solana.RoleReadonly),
		solana.NewAccountMeta(RentSysvar, solana.RoleReadonly),
	)
}

// AuthorizeNonce returns an instruction to change the entity authorized
// to execute nonce instructions on the account
//
// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L164
func AuthorizeNonce(nonce, authority, newAuthority solana.Address) solana.Instruction {
	// # Account references
	//   0. [WRITE] Nonce account
	//   1. [SIGNER] Nonce authority
	data := make([]byte, 4+solana.AddressLength)
	binary.LittleEndian.PutUint32(data, commandAuthorizeNonceAccount)
	copy(data[4:], newAuthority[:])

	return solana.NewInstruction(
		ProgramAddress,
		data,
		solana.NewAccountMeta(nonce, solana.RoleWritable),
		solana.NewAccountMeta(authority, solana.RoleReadonlySigner),
	)
}
