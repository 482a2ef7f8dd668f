package cpu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrogolib/assert"
)

var referenceModes = map[AddressingMode]cpu6502.AddressingMode{
	Implicit:        cpu6502.ImpliedAddressing,
	Accumulator:     cpu6502.AccumulatorAddressing,
	Immediate:       cpu6502.ImmediateAddressing,
	ZeroPage:        cpu6502.ZeroPageAddressing,
	ZeroPageX:       cpu6502.ZeroPageXAddressing,
	ZeroPageY:       cpu6502.ZeroPageYAddressing,
	Absolute:        cpu6502.AbsoluteAddressing,
	AbsoluteX:       cpu6502.AbsoluteXAddressing,
	AbsoluteY:       cpu6502.AbsoluteYAddressing,
	Indirect:        cpu6502.IndirectAddressing,
	IndexedIndirect: cpu6502.IndirectXAddressing,
	IndirectIndexed: cpu6502.IndirectYAddressing,
	Relative:        cpu6502.RelativeAddressing,
}

func TestDecodeMatchesOpcodeReference(t *testing.T) {
	var official int

	for b := range 256 {
		opcode := uint8(b)
		ref := cpu6502.Opcodes[opcode]
		ins := Decode(opcode)

		if isUnofficialReference(ref) {
			continue
		}

		official++
		assert.Equal(t, ref.Instruction.Name, strings.ToLower(ins.Type.String()))
		mode, ok := referenceModes[ins.Mode]
		assert.True(t, ok)
		assert.Equal(t, ref.Addressing, mode)
	}

	assert.Equal(t, 151, official)
}

func TestDecodeUnofficialIsIllegal(t *testing.T) {
	var unofficial int

	for b := range 256 {
		opcode := uint8(b)
		if !isUnofficialReference(cpu6502.Opcodes[opcode]) {
			continue
		}
		unofficial++
		assert.Equal(t, Illegal, DecodeType(opcode), "opcode $%02X", opcode)
	}

	assert.Equal(t, 105, unofficial)
}

// Unofficial encodings still occupy their operand bytes, so the length of
// every opcode has to agree with the reference addressing mode.
func TestDecodeLengthMatchesOpcodeReference(t *testing.T) {
	for b := range 256 {
		opcode := uint8(b)
		ref := cpu6502.Opcodes[opcode]
		want := referenceSize(ref.Addressing)

		assert.Equal(t, want, 1+OperandCount(DecodeMode(opcode)), "opcode $%02X", opcode)
		assert.Equal(t, want, Decode(opcode).Length(), "opcode $%02X", opcode)
	}
}

// isUnofficialReference reports whether the reference table lists an
// undocumented encoding. The jam opcodes are not flagged there.
func isUnofficialReference(ref cpu6502.Opcode) bool {
	return ref.Instruction == nil || ref.Instruction.Unofficial || ref.Instruction.Name == cpu6502.KilName
}

// referenceSize returns the instruction size in bytes of a reference
// addressing mode.
func referenceSize(mode cpu6502.AddressingMode) int {
	switch mode {
	case cpu6502.ImpliedAddressing, cpu6502.AccumulatorAddressing:
		return 1
	case cpu6502.AbsoluteAddressing, cpu6502.AbsoluteXAddressing, cpu6502.AbsoluteYAddressing,
		cpu6502.IndirectAddressing:
		return 3
	default:
		return 2
	}
}

func TestDecodeTotality(t *testing.T) {
	for b := range 256 {
		ins := Decode(uint8(b))
		assert.True(t, ins.Type.String() != "")
		assert.True(t, ins.Mode.String() != "")
		assert.False(t, strings.HasPrefix(ins.Type.String(), "InstructionType("))
		assert.False(t, strings.HasPrefix(ins.Mode.String(), "AddressingMode("))

		length := ins.Length()
		assert.True(t, length >= 1 && length <= 3)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		opcode uint8
		typ    InstructionType
		mode   AddressingMode
		length int
	}{
		{0x00, BRK, Implicit, 1},
		{0x20, JSR, Absolute, 3},
		{0x4c, JMP, Absolute, 3},
		{0x6c, JMP, Indirect, 3},
		{0x0a, ASL, Accumulator, 1},
		{0x6a, ROR, Accumulator, 1},
		{0x96, STX, ZeroPageY, 2},
		{0xb6, LDX, ZeroPageY, 2},
		{0xbe, LDX, AbsoluteY, 3},
		{0x9a, TXS, Implicit, 1},
		{0xba, TSX, Implicit, 1},
		{0xea, NOP, Implicit, 1},
		{0xa1, LDA, IndexedIndirect, 2},
		{0xb1, LDA, IndirectIndexed, 2},
		{0xf0, BEQ, Relative, 2},
		{0xa2, LDX, Immediate, 2},
		{0x89, Illegal, Immediate, 2},
		{0x02, Illegal, IllegalMode, 1},
		{0x92, Illegal, IllegalMode, 1},
		{0x04, Illegal, ZeroPage, 2},
		{0x1a, Illegal, Implicit, 1},
		{0x9e, Illegal, AbsoluteY, 3},
		{0xa7, Illegal, ZeroPage, 2},
		{0xb7, Illegal, ZeroPageY, 2},
		{0xbf, Illegal, AbsoluteY, 3},
		{0xeb, Illegal, Immediate, 2},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%02X %s", tt.opcode, tt.typ), func(t *testing.T) {
			ins := Decode(tt.opcode)
			assert.Equal(t, tt.typ, ins.Type)
			assert.Equal(t, tt.mode, ins.Mode)
			assert.Equal(t, tt.length, ins.Length())
		})
	}
}

func TestOperandCount(t *testing.T) {
	assert.Equal(t, 0, OperandCount(IllegalMode))
	assert.Equal(t, 0, OperandCount(Implicit))
	assert.Equal(t, 0, OperandCount(Accumulator))
	assert.Equal(t, 1, OperandCount(Immediate))
	assert.Equal(t, 1, OperandCount(Relative))
	assert.Equal(t, 1, OperandCount(IndexedIndirect))
	assert.Equal(t, 2, OperandCount(Indirect))
	assert.Equal(t, 2, OperandCount(AbsoluteY))
}
