package solana

import "github.com/solkit/txkit/pkg/pointer"

// TransactionConfig carries optional execution limits for a message.
// Nil fields are unset and occupy no space in the compiled form.
type TransactionConfig struct {
	PriorityFeeLamports         *uint64
	ComputeUnitLimit            *uint32
	LoadedAccountsDataSizeLimit *uint32
	HeapSize                    *uint32
}

// IsZero reports whether no field is set.
func (c *TransactionConfig) IsZero() bool {
	if c == nil {
		return true
	}
	return c.PriorityFeeLamports == nil &&
		c.ComputeUnitLimit == nil &&
		c.LoadedAccountsDataSizeLimit == nil &&
		c.HeapSize == nil
}

func (c *TransactionConfig) clone() *TransactionConfig {
	if c == nil {
		return nil
	}
	return &TransactionConfig{
		PriorityFeeLamports:         pointer.Uint64Copy(c.PriorityFeeLamports),
		ComputeUnitLimit:            pointer.Uint32Copy(c.ComputeUnitLimit),
		LoadedAccountsDataSizeLimit: pointer.Uint32Copy(c.LoadedAccountsDataSizeLimit),
		HeapSize:                    pointer.Uint32Copy(c.HeapSize),
	}
}
