package solana

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrFeePayerMissing indicates a message without a fee payer: unset on
// the application message at compile time, or an empty static account
// list at decompile time.
var ErrFeePayerMissing = errors.New("transaction message has no fee payer")

// InstructionLimitError indicates a mutation would push a message past
// MaxInstructions.
type InstructionLimitError struct {
	Count int
}

func (e *InstructionLimitError) Error() string {
	return fmt.Sprintf("message would hold %d instructions, limit is %d", e.Count, MaxInstructions)
}

// UnsupportedVersionError indicates a version outside legacy, v0 and v1.
type UnsupportedVersionError struct {
	Version Version
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported transaction version %s", e.Version)
}

// AccountIndexOverflowError indicates a message references more unique
// accounts than one-byte instruction indices can address.
type AccountIndexOverflowError struct {
	NumAccounts int
}

func (e *AccountIndexOverflowError) Error() string {
	return fmt.Sprintf("message references %d accounts, limit is %d", e.NumAccounts, maxAccounts)
}

// InvalidMessageHeaderError indicates header counts that cannot
// describe the static account list they arrived with.
type InvalidMessageHeaderError struct {
	Header            MessageHeader
	NumStaticAccounts int
}

func (e *InvalidMessageHeaderError) Error() string {
	return fmt.Sprintf(
		"message header (%d signers, %d readonly signers, %d readonly non-signers) does not fit %d static accounts",
		e.Header.NumSignerAccounts,
		e.Header.NumReadonlySignerAccounts,
		e.Header.NumReadonlyNonSignerAccounts,
		e.NumStaticAccounts,
	)
}

// MissingLookupTablesError lists every lookup table a compiled message
// references whose contents were not supplied for decompilation. Tables
// that were supplied are not listed.
type MissingLookupTablesError struct {
	Tables []Address
}

func (e *MissingLookupTablesError) Error() string {
	tables := make([]string, len(e.Tables))
	for i, table := range e.Tables {
		tables[i] = table.String()
	}
	return fmt.Sprintf("missing contents for lookup tables [%s]", strings.Join(tables, ", "))
}

// LookupIndexOutOfRangeError indicates a compiled message references an
// entry past the end of the supplied contents for one lookup table.
type LookupIndexOutOfRangeError struct {
	Table            Address
	HighestRequested int
	TableSize        int
}

func (e *LookupIndexOutOfRangeError) Error() string {
	return fmt.Sprintf(
		"lookup table %s holds %d addresses, message references index %d",
		e.Table,
		e.TableSize,
		e.HighestRequested,
	)
}

// AccountIndexOutOfRangeError indicates a compiled instruction
// references an account index past the end of the combined static and
// lookup account list.
type AccountIndexOutOfRangeError struct {
	Index       uint8
	NumAccounts int
	Program     bool
}

func (e *AccountIndexOutOfRangeError) Error() string {
	kind := "account"
	if e.Program {
		kind = "program address"
	}
	return fmt.Sprintf("instruction %s index %d out of range, message holds %d accounts", kind, e.Index, e.NumAccounts)
}

// ConfigValueCountError indicates a v1 config section whose mask
// disagrees with the number of packed values.
type ConfigValueCountError struct {
	Mask      uint8
	NumValues int
}

func (e *ConfigValueCountError) Error() string {
	return fmt.Sprintf("config mask %#x does not match %d packed values", e.Mask, e.NumValues)
}
