package solana

// AccountRole describes how an instruction uses an account. The low bit
// carries writability and the high bit signer status, so merging two
// references to the same account is a bitwise OR.
type AccountRole uint8

const (
	roleWritableBit AccountRole = 1 << 0
	roleSignerBit   AccountRole = 1 << 1
)

const (
	RoleReadonly       AccountRole = 0
	RoleWritable       AccountRole = roleWritableBit
	RoleReadonlySigner AccountRole = roleSignerBit
	RoleWritableSigner AccountRole = roleSignerBit | roleWritableBit
)

// IsSigner reports whether the account must sign the transaction.
func (r AccountRole) IsSigner() bool {
	return r&roleSignerBit != 0
}

// IsWritable reports whether the account may be modified.
func (r AccountRole) IsWritable() bool {
	return r&roleWritableBit != 0
}

// Merge combines two roles into one satisfying both.
func (r AccountRole) Merge(other AccountRole) AccountRole {
	return r | other
}

func (r AccountRole) String() string {
	switch r {
	case RoleWritableSigner:
		return "writable_signer"
	case RoleReadonlySigner:
		return "readonly_signer"
	case RoleWritable:
		return "writable"
	default:
		return "readonly"
	}
}
