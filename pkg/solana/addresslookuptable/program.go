package address_lookup_table

import (
	"encoding/binary"

	"github.com/solkit/txkit/pkg/solana"
	"github.com/solkit/txkit/pkg/solana/system"
)

// Reference: https://github.com/solana-program/address-lookup-table/blob/main/program/src/instruction.rs

// AddressLookupTab1e1111111111111111111111111
var ProgramAddress = solana.Address{2, 119, 166, 175, 151, 51, 155, 122, 200, 141, 24, 146, 201, 4, 70, 245, 0, 2, 48, 146, 102, 246, 46, 83, 193, 24, 36, 73, 130, 0, 0, 0}

const (
	commandCreateLookupTable uint32 = iota
	commandFreezeLookupTable
	commandExtendLookupTable
	commandDeactivateLookupTable
	commandCloseLookupTable
)

func Create(table, authority, payer solana.Address, recentSlot uint64, bumpSeed uint8) solana.Instruction {
	data := make([]byte, 4+8+1)
	binary.LittleEndian.PutUint32(data, commandCreateLookupTable)
	binary.LittleEndian.PutUint64(data[4:], recentSlot)
	data[4+8] = bumpSeed

	return solana.NewInstruction(
		ProgramAddress,
		data,
		solana.NewAccountMeta(table, solana.RoleWritable),
		solana.NewAccountMeta(authority, solana.RoleReadonlySigner),
		solana.NewAccountMeta(payer, solana.RoleWritableSigner),
		solana.NewAccountMeta(system.ProgramAddress, solana.RoleReadonly),
	)
}

func Freeze(table, authority solana.Address) solana.Instruction {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, commandFreezeLookupTable)

	return solana.NewInstruction(
		ProgramAddress,
		data,
		solana.NewAccountMeta(table, solana.RoleWritable),
		solana.NewAccountMeta(authority, solana.RoleReadonlySigner),
	)
}

func Extend(table, authority, payer solana.Address, addresses ...solana.Address) solana.Instruction {
	data := make([]byte, 4+8+len(addresses)*solana.AddressLength)
	binary.LittleEndian.PutUint32(data, commandExtendLookupTable)
	binary.LittleEndian.PutUint64(data[4:], uint64(len(addresses)))
	for i, address := range addresses {
		copy(data[4+8+i*solana.AddressLength:], address[:])
	}

	return solana.NewInstruction(
		ProgramAddress,
		data,
		solana.NewAccountMeta(table, solana.RoleWritable),
		solana.NewAccountMeta(authority, solana.RoleReadonlySigner),
		solana.NewAccountMeta(payer, solana.RoleWritableSigner),
		solana.NewAccountMeta(system.ProgramAddress, solana.RoleReadonly),
	)
}

func Deactivate(table, authority solana.Address) solana.Instruction {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, commandDeactivateLookupTable)

	return solana.NewInstruction(
		ProgramAddress,
		data,
		solana.NewAccountMeta(table, solana.RoleWritable),
		solana.NewAccountMeta(authority, solana.RoleReadonlySigner),
	)
}

func Close(table, authority, recipient solana.Address) solana.Instruction {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, commandCloseLookupTable)

	return solana.NewInstruction(
		ProgramAddress,
		data,
		solana.NewAccountMeta(table, solana.RoleWritable),
		solana.NewAccountMeta(authority, solana.RoleReadonlySigner),
		solana.NewAccountMeta(recipient, solana.RoleWritable),
	)
}
