package solana

import "github.com/pkg/errors"

var (
	ErrIncorrectProgram     = errors.New("incorrect program")
	ErrIncorrectInstruction = errors.New("incorrect instruction")
)

// AccountLookup records that an account is sourced from an on-chain
// address lookup table rather than the static account list.
type AccountLookup struct {
	TableAddress Address
	Index        uint8
}

// AccountMeta is one account reference within an instruction. Lookup is
// nil for statically listed accounts.
type AccountMeta struct {
	Address Address
	Role    AccountRole
	Lookup  *AccountLookup
}

// NewAccountMeta returns a static account reference.
func NewAccountMeta(address Address, role AccountRole) AccountMeta {
	return AccountMeta{
		Address: address,
		Role:    role,
	}
}

// NewLookupAccountMeta returns an account reference resolved through a
// lookup table. Signers can never be lookup-sourced; demanding a signer
// role elsewhere for the same address forces it back into the static list.
func NewLookupAccountMeta(address Address, role AccountRole, table Address, index uint8) AccountMeta {
	return AccountMeta{
		Address: address,
		Role:    role,
		Lookup: &AccountLookup{
			TableAddress: table,
			Index:        index,
		},
	}
}

// Instruction is a single program invocation. Nil Accounts or Data mean
// the field is omitted, which the compiled form preserves.
type Instruction struct {
	ProgramAddress Address
	Accounts       []AccountMeta
	Data           []byte
}

// NewInstruction creates a new instruction.
func NewInstruction(program Address, data []byte, accounts ...AccountMeta) Instruction {
	return Instruction{
		ProgramAddress: program,
		Accounts:       accounts,
		Data:           data,
	}
}

func cloneInstruction(instruction Instruction) Instruction {
	out := Instruction{
		ProgramAddress: instruction.ProgramAddress,
	}
	if instruction.Accounts != nil {
		out.Accounts = make([]AccountMeta, len(instruction.Accounts))
		for i, meta := range instruction.Accounts {
			out.Accounts[i] = meta
			if meta.Lookup != nil {
				lookup := *meta.Lookup
				out.Accounts[i].Lookup = &lookup
			}
		}
	}
	if instruction.Data != nil {
		out.Data = append([]byte(nil), instruction.Data...)
	}
	return out
}

func cloneInstructions(instructions []Instruction) []Instruction {
	if instructions == nil {
		return nil
	}
	out := make([]Instruction, len(instructions))
	for i, instruction := range instructions {
		out[i] = cloneInstruction(instruction)
	}
	return out
}
