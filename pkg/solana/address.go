package solana

import (
	"crypto/sha256"
	"math"

	"github.com/jdgcs/ed25519/edwards25519"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// AddressLength is the byte length of an account address.
const AddressLength = 32

const (
	maxSeeds      = 16
	maxSeedLength = 32
)

var (
	ErrInvalidAddress        = errors.New("invalid address")
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")

	ErrInvalidPublicKey = errors.New("invalid public key")
)

var programHashCtor = sha256.New

// Address is a 32-byte account address, rendered as base-58 text.
type Address [AddressLength]byte

// NewAddressFromBase58 parses a base-58 encoded address.
func NewAddressFromBase58(value string) (Address, error) {
	var address Address

	raw, err := base58.Decode(value)
	if err != nil {
		return address, errors.Wrap(ErrInvalidAddress, err.Error())
	}
	if len(raw) != AddressLength {
		return address, errors.Wrapf(ErrInvalidAddress, "invalid length: %d", len(raw))
	}

	copy(address[:], raw)
	return address, nil
}

// MustAddressFromBase58 parses a base-58 encoded address, panicking on
// malformed input. Reserved for hardcoded protocol constants.
func MustAddressFromBase58(value string) Address {
	address, err := NewAddressFromBase58(value)
	if err != nil {
		panic(err)
	}
	return address
}

// NewAddressFromBytes copies a 32-byte slice into an Address.
func NewAddressFromBytes(raw []byte) (Address, error) {
	var address Address
	if len(raw) != AddressLength {
		return address, errors.Wrapf(ErrInvalidAddress, "invalid length: %d", len(raw))
	}

	copy(address[:], raw)
	return address, nil
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	raw := make([]byte, AddressLength)
	copy(raw, a[:])
	return raw
}

// IsZero reports whether the address is all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// CreateProgramAddress mirrors the reference SDK's CreateProgramAddress.
//
// Program addresses are addresses that _do not_ lie on the ed25519 curve,
// so no private key can exist for them. When the program and seed
// parameters hash to a valid public key, ErrInvalidPublicKey is returned.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L158
func CreateProgramAddress(program Address, seeds ...[]byte) (Address, error) {
	var address Address

	if len(seeds) > maxSeeds {
		return address, ErrTooManySeeds
	}

	h := programHashCtor()
	for _, s := range seeds {
		if len(s) > maxSeedLength {
			return address, ErrMaxSeedLengthExceeded
		}

		if _, err := h.Write(s); err != nil {
			return address, errors.Wrap(err, "failed to hash seed")
		}
	}

	for _, v := range [][]byte{program[:], []byte("ProgramDerivedAddress")} {
		if _, err := h.Write(v); err != nil {
			return address, errors.Wrap(err, "failed to hash seed")
		}
	}

	var pub [32]byte
	copy(pub[:], h.Sum(nil))

	// Following the reference SDK, the generated address is rejected if
	// it's a valid compressed EdwardsPoint. The ExtendedGroupElement type
	// is internal to golang.org/x/crypto, so this relies on an open
	// source alternative.
	//
	// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L182-L187
	var A edwards25519.ExtendedGroupElement
	if A.FromBytes(&pub) {
		return address, ErrInvalidPublicKey
	}

	return Address(pub), nil
}

// FindProgramAddressAndBump mirrors the reference SDK's
// FindProgramAddress. It returns the derived address and bump seed.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L234
func FindProgramAddressAndBump(program Address, seeds ...[]byte) (Address, uint8, error) {
	bumpSeed := []byte{math.MaxUint8}
	for i := 0; i < math.MaxUint8; i++ {
		address, err := CreateProgramAddress(program, append(seeds, bumpSeed)...)
		if err == nil {
			return address, bumpSeed[0], nil
		}
		if err != ErrInvalidPublicKey {
			return Address{}, 0, err
		}

		bumpSeed[0]--
	}

	return Address{}, 0, errors.New("unable to find a viable bump seed")
}

// FindProgramAddress mirrors the reference SDK's FindProgramAddress. It
// only returns the derived address.
func FindProgramAddress(program Address, seeds ...[]byte) (Address, error) {
	address, _, err := FindProgramAddressAndBump(program, seeds...)
	return address, err
}
