package compute_budget

import (
	"encoding/binary"
	"errors"

	"github.com/solkit/txkit/pkg/pointer"
	"github.com/solkit/txkit/pkg/solana"
)

// ComputeBudget111111111111111111111111111111
var ProgramAddress = solana.Address{3, 6, 70, 111, 229, 33, 23, 50, 255, 236, 173, 186, 114, 195, 155, 231, 188, 140, 229, 187, 197, 247, 18, 107, 44, 67, 155, 58, 64, 0, 0, 0}

const (
	// nolint:varcheck,deadcode,unused
	commandRequestUnits uint8 = iota
	commandRequestHeapFrame
	commandSetComputeUnitLimit
	commandSetComputeUnitPrice
	commandSetLoadedAccountsDataSizeLimit
)

func RequestHeapFrame(size uint32) solana.Instruction {
	data := make([]byte, 1+4)
	data[0] = commandRequestHeapFrame
	binary.LittleEndian.PutUint32(data[1:], size)

	return solana.NewInstruction(
		ProgramAddress,
		data,
	)
}

func SetComputeUnitLimit(computeUnitLimit uint32) solana.Instruction {
	data := make([]byte, 1+4)
	data[0] = commandSetComputeUnitLimit
	binary.LittleEndian.PutUint32(data[1:], computeUnitLimit)

	return solana.NewInstruction(
		ProgramAddress,
		data,
	)
}

func SetComputeUnitPrice(computeUnitPrice uint64) solana.Instruction {
	data := make([]byte, 1+8)
	data[0] = commandSetComputeUnitPrice
	binary.LittleEndian.PutUint64(data[1:], computeUnitPrice)

	return solana.NewInstruction(
		ProgramAddress,
		data,
	)
}

func SetLoadedAccountsDataSizeLimit(limit uint32) solana.Instruction {
	data := make([]byte, 1+4)
	data[0] = commandSetLoadedAccountsDataSizeLimit
	binary.LittleEndian.PutUint32(data[1:], limit)

	return solana.NewInstruction(
		ProgramAddress,
		data,
	)
}

func ParseRequestHeapFrameIxnData(data []byte) (uint32, error) {
	if len(data) != 5 {
		return 0, errors.New("invalid length")
	}

	if data[0] != commandRequestHeapFrame {
		return 0, errors.New("invalid instruction")
	}

	return binary.LittleEndian.Uint32(data[1:]), nil
}

func ParseSetComputeUnitLimitIxnData(data []byte) (uint32, error) {
	if len(data) != 5 {
		return 0, errors.New("invalid length")
	}

	if data[0] != commandSetComputeUnitLimit {
		return 0, errors.New("invalid instruction")
	}

	return binary.LittleEndian.Uint32(data[1:]), nil
}

func ParseSetComputeUnitPriceIxnData(data []byte) (uint64, error) {
	if len(data) != 9 {
		return 0, errors.New("invalid length")
	}

	if data[0] != commandSetComputeUnitPrice {
		return 0, errors.New("invalid instruction")
	}

	return binary.LittleEndian.Uint64(data[1:]), nil
}

func ParseSetLoadedAccountsDataSizeLimitIxnData(data []byte) (uint32, error) {
	if len(data) != 5 {
		return 0, errors.New("invalid length")
	}

	if data[0] != commandSetLoadedAccountsDataSizeLimit {
		return 0, errors.New("invalid instruction")
	}

	return binary.LittleEndian.Uint32(data[1:]), nil
}

// ConfigFromInstructions collects compute budget settings from an
// instruction list into a transaction config. Instructions for other
// programs are skipped; later settings overwrite earlier ones. Returns
// nil when no setting is present.
func ConfigFromInstructions(instructions []solana.Instruction) *solana.TransactionConfig {
	config := &solana.TransactionConfig{}
	for _, instruction := range instructions {
		if instruction.ProgramAddress != ProgramAddress {
			continue
		}
		if len(instruction.Data) == 0 {
			continue
		}

		switch instruction.Data[0] {
		case commandRequestHeapFrame:
			if size, err := ParseRequestHeapFrameIxnData(instruction.Data); err == nil {
				config.HeapSize = pointer.Uint32(size)
			}
		case commandSetComputeUnitLimit:
			if limit, err := ParseSetComputeUnitLimitIxnData(instruction.Data); err == nil {
				config.ComputeUnitLimit = pointer.Uint32(limit)
			}
		case commandSetComputeUnitPrice:
			if price, err := ParseSetComputeUnitPriceIxnData(instruction.Data); err == nil {
				config.PriorityFeeLamports = pointer.Uint64(price)
			}
		case commandSetLoadedAccountsDataSizeLimit:
			if limit, err := ParseSetLoadedAccountsDataSizeLimitIxnData(instruction.Data); err == nil {
				config.LoadedAccountsDataSizeLimit = pointer.Uint32(limit)
			}
		}
	}

	if config.IsZero() {
		return nil
	}
	return config
}

// InstructionsFromConfig expresses a transaction config as compute
// budget instructions, for messages whose wire version has no config
// section of its own.
func InstructionsFromConfig(config *solana.TransactionConfig) []solana.Instruction {
	if config.IsZero() {
		return nil
	}

	var instructions []solana.Instruction
	if config.PriorityFeeLamports != nil {
		instructions = append(instructions, SetComputeUnitPrice(*config.PriorityFeeLamports))
	}
	if config.ComputeUnitLimit != nil {
		instructions = append(instructions, SetComputeUnitLimit(*config.ComputeUnitLimit))
	}
	if config.LoadedAccountsDataSizeLimit != nil {
		instructions = append(instructions, SetLoadedAccountsDataSizeLimit(*config.LoadedAccountsDataSizeLimit))
	}
	if config.HeapSize != nil {
		instructions = append(instructions, RequestHeapFrame(*config.HeapSize))
	}
	return instructions
}
