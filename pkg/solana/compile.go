package solana

import "github.com/pkg/errors"

// maxAccounts is the most unique accounts a compiled message can
// reference: instruction account indices are a single byte.
const maxAccounts = 256

// CompileTransactionMessage reduces a message to its compact wire-ready
// form: header counts, static account list, lifetime token and
// index-based instructions, plus address table lookups for v0 and v1
// and the packed config for v1.
//
// Compilation is lossy. The lifetime kind and the lookup table contents
// are not recorded; DecompileTransactionMessage needs them resupplied.
func CompileTransactionMessage(message *TransactionMessage) (*CompiledTransactionMessage, error) {
	if !message.version.supported() {
		return nil, &UnsupportedVersionError{Version: message.version}
	}
	if message.feePayer == nil {
		return nil, ErrFeePayerMissing
	}

	ordered := orderAccounts(buildAddressMap(*message.feePayer, message.instructions))
	if ordered.total() > maxAccounts {
		return nil, &AccountIndexOverflowError{NumAccounts: ordered.total()}
	}

	compiled := &CompiledTransactionMessage{
		Version: message.version,
		Header: MessageHeader{
			NumSignerAccounts:            uint8(ordered.numWritableSigners + ordered.numReadonlySigners),
			NumReadonlySignerAccounts:    uint8(ordered.numReadonlySigners),
			NumReadonlyNonSignerAccounts: uint8(ordered.numReadonlyNonSigners),
		},
		StaticAccounts: ordered.staticAddresses(),
	}

	if message.lifetime != nil {
		token := message.lifetime.Token()
		compiled.LifetimeToken = &token
	}

	if len(message.instructions) > 0 {
		compiled.Instructions = make([]CompiledInstruction, len(message.instructions))
		for i, instruction := range message.instructions {
			compiledInstruction, err := compileInstruction(instruction, ordered)
			if err != nil {
				return nil, errors.Wrapf(err, "instruction %d", i)
			}
			compiled.Instructions[i] = compiledInstruction
		}
	}

	// The legacy layout has no slot for lookups, so they are never
	// emitted for it, even if lookup-sourced metas were supplied.
	if message.version != VersionLegacy && len(ordered.lookups) > 0 {
		compiled.AddressTableLookups = ordered.lookups
	}

	if message.version == Version1 {
		compiled.Config = compileConfig(message.config)
	}

	return compiled, nil
}

func compileInstruction(instruction Instruction, ordered *orderedAccounts) (CompiledInstruction, error) {
	programIndex, ok := ordered.index[instruction.ProgramAddress]
	if !ok {
		return CompiledInstruction{}, errors.Errorf("program address %s not in ordered accounts", instruction.ProgramAddress)
	}

	out := CompiledInstruction{ProgramAddressIndex: uint8(programIndex)}

	if len(instruction.Accounts) > 0 {
		out.AccountIndices = make([]uint8, len(instruction.Accounts))
		for i, meta := range instruction.Accounts {
			index, ok := ordered.index[meta.Address]
			if !ok {
				return CompiledInstruction{}, errors.Errorf("account %s not in ordered accounts", meta.Address)
			}
			out.AccountIndices[i] = uint8(index)
		}
	}
	if len(instruction.Data) > 0 {
		out.Data = append([]byte(nil), instruction.Data...)
	}
	return out, nil
}

// compileConfig packs the present config fields into a presence mask
// and a value list in mask bit order. Version1 messages always carry a
// config section, possibly empty.
func compileConfig(config *TransactionConfig) *CompiledConfig {
	out := &CompiledConfig{}
	if config == nil {
		return out
	}

	if config.PriorityFeeLamports != nil {
		out.Mask |= configMaskPriorityFee
		out.Values = append(out.Values, ConfigValue{Width: Width64, Value: *config.PriorityFeeLamports})
	}
	if config.ComputeUnitLimit != nil {
		out.Mask |= configMaskComputeUnitLimit
		out.Values = append(out.Values, ConfigValue{Width: Width32, Value: uint64(*config.ComputeUnitLimit)})
	}
	if config.LoadedAccountsDataSizeLimit != nil {
		out.Mask |= configMaskLoadedAccountsDataSize
		out.Values = append(out.Values, ConfigValue{Width: Width32, Value: uint64(*config.LoadedAccountsDataSizeLimit)})
	}
	if config.HeapSize != nil {
		out.Mask |= configMaskHeapSize
		out.Values = append(out.Values, ConfigValue{Width: Width32, Value: uint64(*config.HeapSize)})
	}
	return out
}
