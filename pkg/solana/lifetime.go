package solana

import (
	"bytes"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// BlockhashLength is the size of a blockhash in bytes.
const BlockhashLength = 32

var ErrInvalidBlockhash = errors.New("invalid blockhash")

// Blockhash is a recent blockhash, or a durable nonce value stored in a
// nonce account. Both act as the lifetime token of a compiled message.
type Blockhash [BlockhashLength]byte

func NewBlockhashFromBase58(value string) (Blockhash, error) {
	decoded, err := base58.Decode(value)
	if err != nil {
		return Blockhash{}, errors.Wrap(err, "invalid base58 value")
	}
	return NewBlockhashFromBytes(decoded)
}

func MustBlockhashFromBase58(value string) Blockhash {
	blockhash, err := NewBlockhashFromBase58(value)
	if err != nil {
		panic(err)
	}
	return blockhash
}

func NewBlockhashFromBytes(value []byte) (Blockhash, error) {
	if len(value) != BlockhashLength {
		return Blockhash{}, ErrInvalidBlockhash
	}

	var blockhash Blockhash
	copy(blockhash[:], value)
	return blockhash, nil
}

func (b Blockhash) String() string {
	return base58.Encode(b[:])
}

func (b Blockhash) Bytes() []byte {
	return b[:]
}

// IsZero reports whether the blockhash is all zero bytes, the wire
// placeholder for a message that has no lifetime constraint yet.
func (b Blockhash) IsZero() bool {
	return bytes.Equal(b[:], make([]byte, BlockhashLength))
}

// LifetimeConstraint bounds how long a transaction message remains
// eligible for inclusion. Exactly two implementations exist:
// BlockhashLifetime and DurableNonceLifetime.
type LifetimeConstraint interface {
	// Token is the 32-byte value placed in the compiled message's
	// lifetime token field.
	Token() Blockhash

	isLifetimeConstraint()
}

// BlockhashLifetime keeps a message valid until the network progresses
// past LastValidBlockHeight.
type BlockhashLifetime struct {
	Blockhash            Blockhash
	LastValidBlockHeight uint64
}

func (l BlockhashLifetime) Token() Blockhash { return l.Blockhash }

func (BlockhashLifetime) isLifetimeConstraint() {}

// DurableNonceLifetime keeps a message valid until the nonce stored in
// NonceAccount is advanced. Messages carrying it must lead with an
// advance nonce instruction authorized by NonceAuthority.
type DurableNonceLifetime struct {
	Nonce          Blockhash
	NonceAccount   Address
	NonceAuthority Address
}

func (l DurableNonceLifetime) Token() Blockhash { return l.Nonce }

func (DurableNonceLifetime) isLifetimeConstraint() {}
