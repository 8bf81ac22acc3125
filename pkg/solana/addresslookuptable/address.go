package address_lookup_table

import (
	"encoding/binary"

	"github.com/solkit/txkit/pkg/solana"
)

// GetAddress derives the table address for an authority and the slot the
// table is created at, along with the bump seed used in the derivation.
func GetAddress(authority solana.Address, recentSlot uint64) (solana.Address, uint8, error) {
	var recentSlotBytes [8]byte
	binary.LittleEndian.PutUint64(recentSlotBytes[:], recentSlot)

	return solana.FindProgramAddressAndBump(
		ProgramAddress,
		authority[:],
		recentSlotBytes[:],
	)
}
