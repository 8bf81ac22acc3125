package solana

import (
	"github.com/pkg/errors"

	"github.com/solkit/txkit/pkg/codec"
)

// versionPrefixBase maps a version to the one-byte prefix of versioned
// layouts: v0 encodes as 0x80, v1 as 0x81. Legacy messages carry no
// prefix; their first byte is the header's signer count, which stays
// below 0x80.
const versionPrefixBase = 127

var wireAddress = codec.NewTransform(
	codec.NewFixedBytes(AddressLength),
	func(address Address) []byte { return address[:] },
	func(raw []byte) Address {
		var address Address
		copy(address[:], raw)
		return address
	},
)

var wireBlockhash = codec.NewTransform(
	codec.NewFixedBytes(BlockhashLength),
	func(blockhash Blockhash) []byte { return blockhash[:] },
	func(raw []byte) Blockhash {
		var blockhash Blockhash
		copy(blockhash[:], raw)
		return blockhash
	},
)

// AddressCodec returns the raw 32-byte address codec, shared by program
// packages that parse on-chain account state.
func AddressCodec() codec.Codec[Address] {
	return wireAddress
}

// BlockhashCodec returns the raw 32-byte blockhash codec.
func BlockhashCodec() codec.Codec[Blockhash] {
	return wireBlockhash
}

var wireHeader = codec.NewStruct(
	codec.NewField("numSignerAccounts", codec.U8(),
		func(h MessageHeader) uint8 { return h.NumSignerAccounts },
		func(h *MessageHeader, v uint8) { h.NumSignerAccounts = v }),
	codec.NewField("numReadonlySignerAccounts", codec.U8(),
		func(h MessageHeader) uint8 { return h.NumReadonlySignerAccounts },
		func(h *MessageHeader, v uint8) { h.NumReadonlySignerAccounts = v }),
	codec.NewField("numReadonlyNonSignerAccounts", codec.U8(),
		func(h MessageHeader) uint8 { return h.NumReadonlyNonSignerAccounts },
		func(h *MessageHeader, v uint8) { h.NumReadonlyNonSignerAccounts = v }),
)

// The wire always carries 32 token bytes; an absent lifetime is the
// all-zero placeholder, stripped back to nil on decode.
var wireLifetimeToken = codec.NewTransform(
	wireBlockhash,
	func(token *Blockhash) Blockhash {
		if token == nil {
			return Blockhash{}
		}
		return *token
	},
	func(token Blockhash) *Blockhash {
		if token.IsZero() {
			return nil
		}
		return &token
	},
)

var wireInstruction = codec.NewStruct(
	codec.NewField("programAddressIndex", codec.U8(),
		func(i CompiledInstruction) uint8 { return i.ProgramAddressIndex },
		func(i *CompiledInstruction, v uint8) { i.ProgramAddressIndex = v }),
	codec.NewField("accountIndices", codec.NewArray(codec.ShortU16Count(), codec.U8()),
		func(i CompiledInstruction) []uint8 { return i.AccountIndices },
		func(i *CompiledInstruction, v []uint8) { i.AccountIndices = dropEmpty(v) }),
	codec.NewField("data", codec.NewBytes(codec.ShortU16Count()),
		func(i CompiledInstruction) []byte { return i.Data },
		func(i *CompiledInstruction, v []byte) { i.Data = dropEmpty(v) }),
)

var wireTableLookup = codec.NewStruct(
	codec.NewField("lookupTableAddress", wireAddress,
		func(l AddressTableLookup) Address { return l.LookupTableAddress },
		func(l *AddressTableLookup, v Address) { l.LookupTableAddress = v }),
	codec.NewField("writableIndexes", codec.NewArray(codec.ShortU16Count(), codec.U8()),
		func(l AddressTableLookup) []uint8 { return l.WritableIndexes },
		func(l *AddressTableLookup, v []uint8) { l.WritableIndexes = dropEmpty(v) }),
	codec.NewField("readonlyIndexes", codec.NewArray(codec.ShortU16Count(), codec.U8()),
		func(l AddressTableLookup) []uint8 { return l.ReadonlyIndexes },
		func(l *AddressTableLookup, v []uint8) { l.ReadonlyIndexes = dropEmpty(v) }),
)

var wireConfig = newConfigCodec()

// configValueWidths pairs each mask bit with its wire width, in the
// fixed order values are packed. Bit 1 is reserved alongside the
// priority fee bit and never set.
var configValueWidths = []struct {
	mask  uint8
	width ValueWidth
}{
	{configMaskPriorityFee, Width64},
	{configMaskComputeUnitLimit, Width32},
	{configMaskLoadedAccountsDataSize, Width32},
	{configMaskHeapSize, Width32},
}

// newConfigCodec builds the packed config section codec: a one-byte
// presence mask followed by the present values in mask bit order. The
// mask is authoritative for widths and counts; encoding a config whose
// value list disagrees with its mask fails.
func newConfigCodec() codec.Codec[*CompiledConfig] {
	widthSize := func(width ValueWidth) int {
		if width == Width64 {
			return 8
		}
		return 4
	}

	enc := codec.NewVariableSizeEncoder(
		func(config *CompiledConfig) (int, error) {
			size := 1
			if config == nil {
				return size, nil
			}
			for _, field := range configValueWidths {
				if config.Mask&field.mask != 0 {
					size += widthSize(field.width)
				}
			}
			return size, nil
		},
		func(config *CompiledConfig, dst []byte, offset int) (int, error) {
			var mask uint8
			var values []ConfigValue
			if config != nil {
				mask = config.Mask
				values = config.Values
			}

			offset, err := codec.U8().Write(mask, dst, offset)
			if err != nil {
				return 0, err
			}
			for _, field := range configValueWidths {
				if mask&field.mask == 0 {
					continue
				}
				if len(values) == 0 {
					return 0, &ConfigValueCountError{Mask: mask, NumValues: len(config.Values)}
				}
				value := values[0]
				values = values[1:]
				if field.width == Width64 {
					offset, err = codec.U64().Write(value.Value, dst, offset)
				} else {
					offset, err = codec.U32().Write(uint32(value.Value), dst, offset)
				}
				if err != nil {
					return 0, err
				}
			}
			if len(values) != 0 {
				return 0, &ConfigValueCountError{Mask: mask, NumValues: len(config.Values)}
			}
			return offset, nil
		},
	)

	dec := codec.NewVariableSizeDecoder(func(src []byte, offset int) (*CompiledConfig, int, error) {
		mask, offset, err := codec.U8().Read(src, offset)
		if err != nil {
			return nil, 0, err
		}

		out := &CompiledConfig{Mask: mask}
		for _, field := range configValueWidths {
			if mask&field.mask == 0 {
				continue
			}
			var value uint64
			if field.width == Width64 {
				value, offset, err = codec.U64().Read(src, offset)
			} else {
				var v uint32
				v, offset, err = codec.U32().Read(src, offset)
				value = uint64(v)
			}
			if err != nil {
				return nil, 0, err
			}
			out.Values = append(out.Values, ConfigValue{Width: field.width, Value: value})
		}
		return out, offset, nil
	})

	return codec.NewCodec(enc, dec)
}

func messageBodyFields() []codec.Field[CompiledTransactionMessage] {
	return []codec.Field[CompiledTransactionMessage]{
		codec.NewField("header", wireHeader,
			func(m CompiledTransactionMessage) MessageHeader { return m.Header },
			func(m *CompiledTransactionMessage, v MessageHeader) { m.Header = v }),
		codec.NewField("staticAccounts", codec.NewArray(codec.ShortU16Count(), wireAddress),
			func(m CompiledTransactionMessage) []Address { return m.StaticAccounts },
			func(m *CompiledTransactionMessage, v []Address) { m.StaticAccounts = dropEmpty(v) }),
		codec.NewField("lifetimeToken", wireLifetimeToken,
			func(m CompiledTransactionMessage) *Blockhash { return m.LifetimeToken },
			func(m *CompiledTransactionMessage, v *Blockhash) { m.LifetimeToken = v }),
		codec.NewField("instructions", codec.NewArray(codec.ShortU16Count(), wireInstruction),
			func(m CompiledTransactionMessage) []CompiledInstruction { return m.Instructions },
			func(m *CompiledTransactionMessage, v []CompiledInstruction) { m.Instructions = dropEmpty(v) }),
	}
}

// messageVariantCodec builds one version's layout: the shared body,
// plus address table lookups outside legacy, plus the config section
// for v1, behind a version prefix for the versioned layouts. Decoding
// stamps the variant's version on the result.
func messageVariantCodec(version Version) codec.Codec[CompiledTransactionMessage] {
	fields := messageBodyFields()
	if version != VersionLegacy {
		fields = append(fields, codec.NewField("addressTableLookups", codec.NewArray(codec.ShortU16Count(), wireTableLookup),
			func(m CompiledTransactionMessage) []AddressTableLookup { return m.AddressTableLookups },
			func(m *CompiledTransactionMessage, v []AddressTableLookup) { m.AddressTableLookups = dropEmpty(v) }))
	}
	if version == Version1 {
		fields = append(fields, codec.NewField("config", wireConfig,
			func(m CompiledTransactionMessage) *CompiledConfig { return m.Config },
			func(m *CompiledTransactionMessage, v *CompiledConfig) { m.Config = v }))
	}

	stamped := codec.NewTransform(codec.NewStruct(fields...),
		func(m CompiledTransactionMessage) CompiledTransactionMessage { return m },
		func(m CompiledTransactionMessage) CompiledTransactionMessage {
			m.Version = version
			return m
		},
	)
	if version == VersionLegacy {
		return stamped
	}
	return codec.NewHiddenPrefix([]byte{byte(version) + versionPrefixBase}, stamped)
}

var wireMessage = codec.NewUnion(
	[]codec.Codec[CompiledTransactionMessage]{
		messageVariantCodec(VersionLegacy),
		messageVariantCodec(Version0),
		messageVariantCodec(Version1),
	},
	func(m CompiledTransactionMessage) int { return int(m.Version) },
	func(src []byte, offset int) int {
		if offset >= len(src) || src[offset]&0x80 == 0 {
			// Legacy; an empty buffer also lands here so the legacy
			// body codec surfaces the bounds error.
			return 0
		}
		return int(src[offset]&0x7f) + 1
	},
)

// CompiledMessageCodec returns the wire codec covering every supported
// version. Encoding dispatches on the Version field; decoding sniffs
// the first byte for a version prefix.
func CompiledMessageCodec() codec.Codec[CompiledTransactionMessage] {
	return wireMessage
}

// CompiledMessageEncoder returns the encoding half of the wire codec.
func CompiledMessageEncoder() codec.Encoder[CompiledTransactionMessage] {
	return wireMessage.Encoder()
}

// CompiledMessageDecoder returns the decoding half of the wire codec.
func CompiledMessageDecoder() codec.Decoder[CompiledTransactionMessage] {
	return wireMessage.Decoder()
}

// EncodeCompiledMessage serializes a compiled message for signing and
// transmission.
func EncodeCompiledMessage(compiled *CompiledTransactionMessage) ([]byte, error) {
	if !compiled.Version.supported() {
		return nil, &UnsupportedVersionError{Version: compiled.Version}
	}
	return wireMessage.Encode(*compiled)
}

// DecodeCompiledMessage parses wire bytes into a compiled message.
// Bytes past the end of the message are ignored; callers embedding the
// message in a larger frame should use CompiledMessageDecoder().Read.
func DecodeCompiledMessage(raw []byte) (*CompiledTransactionMessage, error) {
	compiled, err := wireMessage.Decode(raw)
	if err != nil {
		var variantErr *codec.VariantError
		if errors.As(err, &variantErr) && variantErr.Index > int(Version1) {
			return nil, &UnsupportedVersionError{Version: Version(variantErr.Index)}
		}
		return nil, err
	}
	return &compiled, nil
}

// CompiledMessageSize returns the exact encoded byte length of a
// compiled message without encoding it. Packing logic uses this to
// decide how many instructions fit under a wire size ceiling.
func CompiledMessageSize(compiled *CompiledTransactionMessage) (int, error) {
	if !compiled.Version.supported() {
		return 0, &UnsupportedVersionError{Version: compiled.Version}
	}
	return wireMessage.SizeOf(*compiled)
}

func dropEmpty[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	return items
}
