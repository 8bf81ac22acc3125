package solana

import "fmt"

// MaxInstructions is the most instructions a transaction message may
// hold. Adding beyond it fails with InstructionLimitError.
const MaxInstructions = 64

// Version selects the wire layout a message compiles to.
type Version uint8

const (
	// VersionLegacy is the original wire layout. It carries no version
	// prefix and no address table lookups.
	VersionLegacy Version = iota

	// Version0 adds address table lookups behind a one-byte version
	// prefix.
	Version0

	// Version1 extends Version0 with a packed transaction config.
	Version1
)

func (v Version) String() string {
	switch v {
	case VersionLegacy:
		return "legacy"
	case Version0:
		return "v0"
	case Version1:
		return "v1"
	default:
		return fmt.Sprintf("v%d", uint8(v)-1)
	}
}

func (v Version) supported() bool {
	return v <= Version1
}

// TransactionMessage accumulates the inputs to message compilation:
// version, fee payer, instructions, lifetime constraint and optional
// config. The zero value is not usable; construct one with
// NewTransactionMessage. Builder methods return a modified copy and
// never mutate the receiver, so messages can be shared freely.
type TransactionMessage struct {
	version      Version
	feePayer     *Address
	instructions []Instruction
	lifetime     LifetimeConstraint
	config       *TransactionConfig
}

// NewTransactionMessage returns an empty message targeting the given
// wire version.
func NewTransactionMessage(version Version) (*TransactionMessage, error) {
	if !version.supported() {
		return nil, &UnsupportedVersionError{Version: version}
	}
	return &TransactionMessage{version: version}, nil
}

func (m *TransactionMessage) clone() *TransactionMessage {
	out := &TransactionMessage{
		version:      m.version,
		instructions: cloneInstructions(m.instructions),
		lifetime:     m.lifetime,
		config:       m.config.clone(),
	}
	if m.feePayer != nil {
		feePayer := *m.feePayer
		out.feePayer = &feePayer
	}
	return out
}

// Version returns the wire version the message compiles to.
func (m *TransactionMessage) Version() Version {
	return m.version
}

// FeePayer returns the configured fee payer, if one is set.
func (m *TransactionMessage) FeePayer() (Address, bool) {
	if m.feePayer == nil {
		return Address{}, false
	}
	return *m.feePayer, true
}

// Instructions returns a copy of the message's instruction list.
func (m *TransactionMessage) Instructions() []Instruction {
	return cloneInstructions(m.instructions)
}

// NumInstructions returns the instruction count.
func (m *TransactionMessage) NumInstructions() int {
	return len(m.instructions)
}

// Lifetime returns the message's lifetime constraint, if one is set.
func (m *TransactionMessage) Lifetime() (LifetimeConstraint, bool) {
	if m.lifetime == nil {
		return nil, false
	}
	return m.lifetime, true
}

// Config returns a copy of the message's transaction config, or nil
// when unset.
func (m *TransactionMessage) Config() *TransactionConfig {
	return m.config.clone()
}

// WithFeePayer sets the account paying the transaction fee. The fee
// payer always compiles to static account index 0 as a writable signer.
func (m *TransactionMessage) WithFeePayer(address Address) *TransactionMessage {
	out := m.clone()
	out.feePayer = &address
	return out
}

// AppendInstruction adds an instruction at the end of the message.
func (m *TransactionMessage) AppendInstruction(instruction Instruction) (*TransactionMessage, error) {
	return m.AppendInstructions(instruction)
}

// AppendInstructions adds instructions at the end of the message.
func (m *TransactionMessage) AppendInstructions(instructions ...Instruction) (*TransactionMessage, error) {
	if count := len(m.instructions) + len(instructions); count > MaxInstructions {
		return nil, &InstructionLimitError{Count: count}
	}

	out := m.clone()
	out.instructions = append(out.instructions, cloneInstructions(instructions)...)
	return out, nil
}

// PrependInstruction adds an instruction at the front of the message.
func (m *TransactionMessage) PrependInstruction(instruction Instruction) (*TransactionMessage, error) {
	if count := len(m.instructions) + 1; count > MaxInstructions {
		return nil, &InstructionLimitError{Count: count}
	}

	out := m.clone()
	out.instructions = append([]Instruction{cloneInstruction(instruction)}, out.instructions...)
	return out, nil
}

// WithBlockhashLifetime binds the message to a recent blockhash,
// replacing any previous lifetime constraint.
func (m *TransactionMessage) WithBlockhashLifetime(blockhash Blockhash, lastValidBlockHeight uint64) *TransactionMessage {
	out := m.clone()
	out.lifetime = BlockhashLifetime{
		Blockhash:            blockhash,
		LastValidBlockHeight: lastValidBlockHeight,
	}
	return out
}

// WithDurableNonceLifetime binds the message to a durable nonce,
// replacing any previous lifetime constraint. The message's first
// instruction must advance the nonce, so one is prepended, or swapped
// in if the message already leads with an advance nonce instruction.
func (m *TransactionMessage) WithDurableNonceLifetime(nonce Blockhash, nonceAccount, nonceAuthority Address) (*TransactionMessage, error) {
	out := m.clone()
	out.lifetime = DurableNonceLifetime{
		Nonce:          nonce,
		NonceAccount:   nonceAccount,
		NonceAuthority: nonceAuthority,
	}

	advance := advanceNonceInstruction(nonceAccount, nonceAuthority)
	if len(out.instructions) > 0 && IsAdvanceNonceInstruction(out.instructions[0]) {
		out.instructions[0] = advance
		return out, nil
	}

	if count := len(out.instructions) + 1; count > MaxInstructions {
		return nil, &InstructionLimitError{Count: count}
	}
	out.instructions = append([]Instruction{advance}, out.instructions...)
	return out, nil
}

// WithConfig sets the transaction config, replacing any previous one.
// Only Version1 messages carry the config on the wire; compiling any
// other version silently drops it.
func (m *TransactionMessage) WithConfig(config *TransactionConfig) *TransactionMessage {
	out := m.clone()
	out.config = config.clone()
	return out
}
