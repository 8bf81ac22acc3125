package solana

// MessageHeader counts, out of the static account list, how many
// accounts must sign and how many stay readonly.
type MessageHeader struct {
	NumSignerAccounts            uint8
	NumReadonlySignerAccounts    uint8
	NumReadonlyNonSignerAccounts uint8
}

// CompiledInstruction references its program and accounts by index into
// the combined static plus lookup account list. Nil AccountIndices or
// Data mean the source instruction omitted them.
type CompiledInstruction struct {
	ProgramAddressIndex uint8
	AccountIndices      []uint8
	Data                []byte
}

// AddressTableLookup records which entries of one on-chain lookup table
// a message loads, split by writability. Indexes are positions within
// the table, not within the message's account list.
type AddressTableLookup struct {
	LookupTableAddress Address
	WritableIndexes    []uint8
	ReadonlyIndexes    []uint8
}

// ValueWidth is the wire width of one packed config value.
type ValueWidth uint8

const (
	Width32 ValueWidth = iota
	Width64
)

// ConfigValue is one present transaction config field tagged with the
// integer width it occupies on the wire.
type ConfigValue struct {
	Width ValueWidth
	Value uint64
}

// CompiledConfig is the packed form of TransactionConfig carried by
// Version1 messages: a bitmask of present fields and their values in
// mask bit order.
type CompiledConfig struct {
	Mask   uint8
	Values []ConfigValue
}

const (
	configMaskPriorityFee            = uint8(1) << 0
	configMaskComputeUnitLimit       = uint8(1) << 2
	configMaskLoadedAccountsDataSize = uint8(1) << 3
	configMaskHeapSize               = uint8(1) << 4
)

// CompiledTransactionMessage is the compact, index-based form of a
// transaction message, ready for the wire codec. It is lossy: the
// lifetime kind and the lookup table contents are not recorded, so
// decompiling needs that context supplied externally.
type CompiledTransactionMessage struct {
	Version        Version
	Header         MessageHeader
	StaticAccounts []Address

	// LifetimeToken is nil when the source message had no lifetime
	// constraint. On the wire the absent token is an all-zero value.
	LifetimeToken *Blockhash

	Instructions []CompiledInstruction

	// AddressTableLookups is only populated for Version0 and Version1
	// messages; the legacy layout has no slot for it.
	AddressTableLookups []AddressTableLookup

	// Config is only populated for Version1 messages.
	Config *CompiledConfig
}
