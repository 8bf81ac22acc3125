package system

import (
	"github.com/pkg/errors"

	"github.com/solkit/txkit/pkg/codec"
	"github.com/solkit/txkit/pkg/solana"
)

// NonceAccountSize is the serialized size of a nonce account's state.
const NonceAccountSize = 80

type NonceVersion uint32

const (
	NonceVersion0 NonceVersion = iota
	NonceVersion1
)

type NonceState uint32

const (
	NonceStateUninitialized NonceState = iota
	NonceStateInitialized
)

var (
	ErrInvalidAccountSize    = errors.New("invalid nonce account size")
	ErrInvalidAccountVersion = errors.New("invalid nonce account version")
	ErrInvalidAccountOwner   = errors.New("nonce account not owned by the system program")
)

// NonceAccount is the on-chain state of a durable nonce account.
//
// https://github.com/solana-labs/solana/blob/da00b39f4f92fb16417bd2d8bd218a04a34527b8/sdk/program/src/nonce/state/current.rs#L8
type NonceAccount struct {
	Version   NonceVersion
	State     NonceState
	Authority solana.Address
	Blockhash solana.Blockhash

	LamportsPerSignature uint64
}

var nonceAccountCodec = codec.NewStruct(
	codec.NewField("version", codec.U32(),
		func(a NonceAccount) uint32 { return uint32(a.Version) },
		func(a *NonceAccount, v uint32) { a.Version = NonceVersion(v) }),
	codec.NewField("state", codec.U32(),
		func(a NonceAccount) uint32 { return uint32(a.State) },
		func(a *NonceAccount, v uint32) { a.State = NonceState(v) }),
	codec.NewField("authority", solana.AddressCodec(),
		func(a NonceAccount) solana.Address { return a.Authority },
		func(a *NonceAccount, v solana.Address) { a.Authority = v }),
	codec.NewField("blockhash", solana.BlockhashCodec(),
		func(a NonceAccount) solana.Blockhash { return a.Blockhash },
		func(a *NonceAccount, v solana.Blockhash) { a.Blockhash = v }),
	codec.NewField("lamportsPerSignature", codec.U64(),
		func(a NonceAccount) uint64 { return a.LamportsPerSignature },
		func(a *NonceAccount, v uint64) { a.LamportsPerSignature = v }),
)

func (obj NonceAccount) Marshal() []byte {
	res, _ := nonceAccountCodec.Encode(obj)
	return res
}

func (obj *NonceAccount) Unmarshal(data []byte) error {
	if len(data) != NonceAccountSize {
		return ErrInvalidAccountSize
	}

	decoded, err := nonceAccountCodec.Decode(data)
	if err != nil {
		return err
	}
	*obj = decoded

	if obj.Version != NonceVersion1 {
		return ErrInvalidAccountVersion
	}
	return nil
}

// NonceValueFromAccountData extracts the current nonce value from a
// nonce account owned by the system program.
func NonceValueFromAccountData(owner solana.Address, data []byte) (solana.Blockhash, error) {
	if owner != ProgramAddress {
		return solana.Blockhash{}, ErrInvalidAccountOwner
	}

	var account NonceAccount
	if err := account.Unmarshal(data); err != nil {
		return solana.Blockhash{}, err
	}
	return account.Blockhash, nil
}
