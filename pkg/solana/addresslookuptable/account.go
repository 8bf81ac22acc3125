package address_lookup_table

import (
	"errors"
	"fmt"

	"github.com/solkit/txkit/pkg/codec"
	"github.com/solkit/txkit/pkg/solana"
)

var (
	ErrInvalidAccountSize = errors.New("invalid address lookup table account size")
	ErrInvalidAccountType = errors.New("invalid account type")
)

const (
	tableDiscriminator = 1

	// The address region always starts here, regardless of whether the
	// authority is set.
	metadataSize = 56

	maxAddresses = 256
)

// AddressLookupTableAccount is the deserialized state of an address lookup
// table account.
//
// Reference: https://github.com/solana-program/address-lookup-table/blob/main/program/src/state.rs
type AddressLookupTableAccount struct {
	DeactivationSlot           uint64
	LastExtendedSlot           uint64
	LastExtendedSlotStartIndex uint8
	Authority                  *solana.Address
	Addresses                  []solana.Address
}

var tableAuthority = codec.NewOption(solana.AddressCodec())

func (obj *AddressLookupTableAccount) Marshal() []byte {
	data := make([]byte, metadataSize+len(obj.Addresses)*solana.AddressLength)

	offset, _ := codec.U32().Write(tableDiscriminator, data, 0)
	offset, _ = codec.U64().Write(obj.DeactivationSlot, data, offset)
	offset, _ = codec.U64().Write(obj.LastExtendedSlot, data, offset)
	offset, _ = codec.U8().Write(obj.LastExtendedSlotStartIndex, data, offset)
	_, _ = tableAuthority.Write(obj.Authority, data, offset)

	// The gap the optional authority leaves before the address region
	// stays zero, matching the program's fixed-size metadata block.
	offset = metadataSize
	for _, address := range obj.Addresses {
		offset, _ = solana.AddressCodec().Write(address, data, offset)
	}

	return data
}

func (obj *AddressLookupTableAccount) Unmarshal(data []byte) error {
	if len(data) < metadataSize {
		return ErrInvalidAccountSize
	}

	addressData := len(data) - metadataSize
	if addressData%solana.AddressLength != 0 {
		return ErrInvalidAccountSize
	}
	addressCount := addressData / solana.AddressLength
	if addressCount > maxAddresses {
		return ErrInvalidAccountSize
	}

	discriminator, offset, err := codec.U32().Read(data, 0)
	if err != nil {
		return err
	}
	if discriminator != tableDiscriminator {
		return ErrInvalidAccountType
	}

	if obj.DeactivationSlot, offset, err = codec.U64().Read(data, offset); err != nil {
		return err
	}
	if obj.LastExtendedSlot, offset, err = codec.U64().Read(data, offset); err != nil {
		return err
	}
	if obj.LastExtendedSlotStartIndex, offset, err = codec.U8().Read(data, offset); err != nil {
		return err
	}
	if obj.Authority, _, err = tableAuthority.Read(data, offset); err != nil {
		// The program only ever writes presence bytes 0 and 1.
		return ErrInvalidAccountType
	}

	obj.Addresses = nil
	if addressCount > 0 {
		obj.Addresses = make([]solana.Address, addressCount)
		offset = metadataSize
		for i := range obj.Addresses {
			if obj.Addresses[i], offset, err = solana.AddressCodec().Read(data, offset); err != nil {
				return err
			}
		}
	}

	return nil
}

// Keyed binds the table's on-chain address to its loaded contents.
func (obj *AddressLookupTableAccount) Keyed(address solana.Address) KeyedTable {
	return KeyedTable{
		Address:   address,
		Addresses: obj.Addresses,
	}
}

func (obj *AddressLookupTableAccount) String() string {
	authorityString := "none"
	if obj.Authority != nil {
		authorityString = obj.Authority.String()
	}

	addressesString := "{"
	for i, address := range obj.Addresses {
		addressesString += fmt.Sprintf("%d:%s,", i, address)
	}
	addressesString += "}"

	return fmt.Sprintf(
		"AddressLookupTable{deactivation_slot=%d,last_extended_slot=%d,last_extended_slot_start_index=%d,authority=%s,addresses=%s}",
		obj.DeactivationSlot,
		obj.LastExtendedSlot,
		obj.LastExtendedSlotStartIndex,
		authorityString,
		addressesString,
	)
}

// KeyedTable pairs a lookup table's address with its contents, in on-chain
// order.
type KeyedTable struct {
	Address   solana.Address
	Addresses []solana.Address
}

// AddressMap arranges keyed tables into the supplement the decompiler
// consumes as DecompileConfig.AddressesByLookupTableAddress.
func AddressMap(tables ...KeyedTable) map[solana.Address][]solana.Address {
	out := make(map[solana.Address][]solana.Address, len(tables))
	for _, table := range tables {
		out[table.Address] = table.Addresses
	}
	return out
}
