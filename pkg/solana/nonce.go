package solana

import "bytes"

// Protocol constants behind the advance nonce pattern match. Nonce
// accounts are owned by the system program, whose instructions carry a
// 4-byte little-endian discriminator.
var (
	systemProgramAddress = Address{}

	recentBlockhashesSysvarAddress = MustAddressFromBase58("SysvarRecentB1ockHashes11111111111111111111")

	advanceNonceDiscriminator = []byte{4, 0, 0, 0}
)

func advanceNonceInstruction(nonceAccount, nonceAuthority Address) Instruction {
	return NewInstruction(
		systemProgramAddress,
		append([]byte(nil), advanceNonceDiscriminator...),
		NewAccountMeta(nonceAccount, RoleWritable),
		NewAccountMeta(recentBlockhashesSysvarAddress, RoleReadonly),
		NewAccountMeta(nonceAuthority, RoleReadonlySigner),
	)
}

// IsAdvanceNonceInstruction reports whether an instruction structurally
// matches the system program's advance nonce call: the system program
// address, the exact discriminator, and the exact three-account shape
// of (nonce account: writable, recent blockhashes sysvar: readonly,
// nonce authority: any signer).
//
// The match is purely structural. A message that merely happens to lead
// with an identical-looking instruction cannot be told apart from a
// durable nonce transaction, because the compiled form does not record
// which lifetime kind produced it. Decompilation accepts that ambiguity.
func IsAdvanceNonceInstruction(instruction Instruction) bool {
	if instruction.ProgramAddress != systemProgramAddress {
		return false
	}
	if !bytes.Equal(instruction.Data, advanceNonceDiscriminator) {
		return false
	}
	if len(instruction.Accounts) != 3 {
		return false
	}
	if instruction.Accounts[0].Role != RoleWritable {
		return false
	}
	if instruction.Accounts[1].Address != recentBlockhashesSysvarAddress {
		return false
	}
	if instruction.Accounts[1].Role != RoleReadonly {
		return false
	}
	return instruction.Accounts[2].Role.IsSigner()
}
