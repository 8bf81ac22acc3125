package solana

import (
	"math"

	"github.com/pkg/errors"

	"github.com/solkit/txkit/pkg/pointer"
)

// DecompileConfig supplies the context the compiled form lost.
type DecompileConfig struct {
	// AddressesByLookupTableAddress holds the full ordered contents of
	// every lookup table the message references, as of a known slot.
	AddressesByLookupTableAddress map[Address][]Address

	// LastValidBlockHeight is attached to a reconstructed blockhash
	// lifetime. Nil means unknown, which reconstructs as the maximum
	// block height.
	LastValidBlockHeight *uint64
}

// DecompileTransactionMessage reconstructs an application-level message
// from its compiled form. The compiled bytes do not record the lifetime
// kind or the lookup table contents, so the lifetime is recovered by
// pattern matching the first instruction and lookup addresses must be
// supplied through config.
func DecompileTransactionMessage(compiled *CompiledTransactionMessage, config *DecompileConfig) (*TransactionMessage, error) {
	if !compiled.Version.supported() {
		return nil, &UnsupportedVersionError{Version: compiled.Version}
	}
	if len(compiled.StaticAccounts) == 0 {
		return nil, ErrFeePayerMissing
	}
	if config == nil {
		config = &DecompileConfig{}
	}

	accounts, err := staticAccountMetas(compiled)
	if err != nil {
		return nil, err
	}
	lookupAccounts, err := lookupAccountMetas(compiled, config.AddressesByLookupTableAddress)
	if err != nil {
		return nil, err
	}
	accounts = append(accounts, lookupAccounts...)

	feePayer := compiled.StaticAccounts[0]
	out := &TransactionMessage{
		version:  compiled.Version,
		feePayer: &feePayer,
	}

	if len(compiled.Instructions) > 0 {
		out.instructions = make([]Instruction, len(compiled.Instructions))
		for i, compiledInstruction := range compiled.Instructions {
			instruction, err := decompileInstruction(compiledInstruction, accounts)
			if err != nil {
				return nil, errors.Wrapf(err, "instruction %d", i)
			}
			out.instructions[i] = instruction
		}
	}

	if compiled.LifetimeToken != nil {
		out.lifetime = lifetimeFromToken(*compiled.LifetimeToken, out.instructions, config.LastValidBlockHeight)
	}

	if compiled.Version == Version1 {
		out.config, err = configFromCompiled(compiled.Config)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// staticAccountMetas rebuilds the static account roles by walking the
// four header buckets in compilation order.
func staticAccountMetas(compiled *CompiledTransactionMessage) ([]AccountMeta, error) {
	var (
		numStatic             = len(compiled.StaticAccounts)
		numSigners            = int(compiled.Header.NumSignerAccounts)
		numReadonlySigners    = int(compiled.Header.NumReadonlySignerAccounts)
		numReadonlyNonSigners = int(compiled.Header.NumReadonlyNonSignerAccounts)
	)

	numWritableSigners := numSigners - numReadonlySigners
	numWritableNonSigners := numStatic - numSigners - numReadonlyNonSigners
	if numWritableSigners < 0 || numWritableNonSigners < 0 {
		return nil, &InvalidMessageHeaderError{
			Header:            compiled.Header,
			NumStaticAccounts: numStatic,
		}
	}

	metas := make([]AccountMeta, 0, numStatic)
	next := 0
	appendBucket := func(count int, role AccountRole) {
		for i := 0; i < count; i++ {
			metas = append(metas, NewAccountMeta(compiled.StaticAccounts[next], role))
			next++
		}
	}
	appendBucket(numWritableSigners, RoleWritableSigner)
	appendBucket(numReadonlySigners, RoleReadonlySigner)
	appendBucket(numWritableNonSigners, RoleWritable)
	appendBucket(numReadonlyNonSigners, RoleReadonly)
	return metas, nil
}

// lookupAccountMetas resolves every address table lookup against the
// supplied table contents, producing writable metas for every table and
// then readonly metas for every table, mirroring the compiler's account
// ordering. Validation is batched so one failure reports everything
// wrong with its category: all missing tables together, and each
// table's highest requested index against its size.
func lookupAccountMetas(compiled *CompiledTransactionMessage, tables map[Address][]Address) ([]AccountMeta, error) {
	if len(compiled.AddressTableLookups) == 0 {
		return nil, nil
	}

	var missing []Address
	for _, lookup := range compiled.AddressTableLookups {
		if _, ok := tables[lookup.LookupTableAddress]; !ok {
			missing = append(missing, lookup.LookupTableAddress)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingLookupTablesError{Tables: missing}
	}

	for _, lookup := range compiled.AddressTableLookups {
		contents := tables[lookup.LookupTableAddress]
		highest := -1
		for _, index := range lookup.WritableIndexes {
			highest = max(highest, int(index))
		}
		for _, index := range lookup.ReadonlyIndexes {
			highest = max(highest, int(index))
		}
		if highest >= len(contents) {
			return nil, &LookupIndexOutOfRangeError{
				Table:            lookup.LookupTableAddress,
				HighestRequested: highest,
				TableSize:        len(contents),
			}
		}
	}

	var metas []AccountMeta
	for _, lookup := range compiled.AddressTableLookups {
		contents := tables[lookup.LookupTableAddress]
		for _, index := range lookup.WritableIndexes {
			metas = append(metas, NewLookupAccountMeta(contents[index], RoleWritable, lookup.LookupTableAddress, index))
		}
	}
	for _, lookup := range compiled.AddressTableLookups {
		contents := tables[lookup.LookupTableAddress]
		for _, index := range lookup.ReadonlyIndexes {
			metas = append(metas, NewLookupAccountMeta(contents[index], RoleReadonly, lookup.LookupTableAddress, index))
		}
	}
	return metas, nil
}

func decompileInstruction(compiled CompiledInstruction, accounts []AccountMeta) (Instruction, error) {
	if int(compiled.ProgramAddressIndex) >= len(accounts) {
		return Instruction{}, &AccountIndexOutOfRangeError{
			Index:       compiled.ProgramAddressIndex,
			NumAccounts: len(accounts),
			Program:     true,
		}
	}

	out := Instruction{ProgramAddress: accounts[compiled.ProgramAddressIndex].Address}

	if len(compiled.AccountIndices) > 0 {
		out.Accounts = make([]AccountMeta, len(compiled.AccountIndices))
		for i, index := range compiled.AccountIndices {
			if int(index) >= len(accounts) {
				return Instruction{}, &AccountIndexOutOfRangeError{
					Index:       index,
					NumAccounts: len(accounts),
				}
			}
			meta := accounts[index]
			if meta.Lookup != nil {
				lookup := *meta.Lookup
				meta.Lookup = &lookup
			}
			out.Accounts[i] = meta
		}
	}
	if len(compiled.Data) > 0 {
		out.Data = append([]byte(nil), compiled.Data...)
	}
	return out, nil
}

// lifetimeFromToken reinterprets the lifetime token by pattern matching
// the first instruction: a leading advance nonce instruction means the
// token is a durable nonce, anything else means a recent blockhash.
func lifetimeFromToken(token Blockhash, instructions []Instruction, lastValidBlockHeight *uint64) LifetimeConstraint {
	if len(instructions) > 0 && IsAdvanceNonceInstruction(instructions[0]) {
		return DurableNonceLifetime{
			Nonce:          token,
			NonceAccount:   instructions[0].Accounts[0].Address,
			NonceAuthority: instructions[0].Accounts[2].Address,
		}
	}
	return BlockhashLifetime{
		Blockhash:            token,
		LastValidBlockHeight: *pointer.Uint64OrDefault(lastValidBlockHeight, math.MaxUint64),
	}
}

// configFromCompiled unpacks the mask and value stream back into a
// TransactionConfig. An empty section decompiles to no config at all.
func configFromCompiled(compiled *CompiledConfig) (*TransactionConfig, error) {
	if compiled == nil {
		return nil, nil
	}

	values := compiled.Values
	take := func() (uint64, error) {
		if len(values) == 0 {
			return 0, &ConfigValueCountError{Mask: compiled.Mask, NumValues: len(compiled.Values)}
		}
		value := values[0].Value
		values = values[1:]
		return value, nil
	}

	out := &TransactionConfig{}
	if compiled.Mask&configMaskPriorityFee != 0 {
		value, err := take()
		if err != nil {
			return nil, err
		}
		out.PriorityFeeLamports = &value
	}
	if compiled.Mask&configMaskComputeUnitLimit != 0 {
		value, err := take()
		if err != nil {
			return nil, err
		}
		limit := uint32(value)
		out.ComputeUnitLimit = &limit
	}
	if compiled.Mask&configMaskLoadedAccountsDataSize != 0 {
		value, err := take()
		if err != nil {
			return nil, err
		}
		limit := uint32(value)
		out.LoadedAccountsDataSizeLimit = &limit
	}
	if compiled.Mask&configMaskHeapSize != 0 {
		value, err := take()
		if err != nil {
			return nil, err
		}
		size := uint32(value)
		out.HeapSize = &size
	}
	if len(values) != 0 {
		return nil, &ConfigValueCountError{Mask: compiled.Mask, NumValues: len(compiled.Values)}
	}

	if out.IsZero() {
		return nil, nil
	}
	return out, nil
}
