package cpu

import (
	"fmt"
	"strings"
)

// InstructionType is the mnemonic of a decoded opcode.
type InstructionType uint8

// Instruction types, Illegal covers all undocumented encodings.
const (
	Illegal InstructionType = iota
	ADC
	AND
	ASL
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRK
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	NOP
	ORA
	PHA
	PHP
	PLA
	PLP
	ROL
	ROR
	RTI
	RTS
	SBC
	SEC
	SED
	SEI
	STA
	STX
	STY
	TAX
	TAY
	TSX
	TXA
	TXS
	TYA
)

// instructionNames is ordered like the InstructionType constants.
var instructionNames = strings.Fields(`???
	ADC AND ASL BCC BCS BEQ BIT BMI BNE BPL BRK BVC BVS CLC CLD CLI CLV CMP CPX CPY
	DEC DEX DEY EOR INC INX INY JMP JSR LDA LDX LDY LSR NOP ORA PHA PHP PLA PLP ROL
	ROR RTI RTS SBC SEC SED SEI STA STX STY TAX TAY TSX TXA TXS TYA`)

func (t InstructionType) String() string {
	if int(t) < len(instructionNames) {
		return instructionNames[t]
	}
	return fmt.Sprintf("InstructionType(%d)", t)
}

// AddressingMode selects how an instruction locates its operand.
type AddressingMode uint8

// Addressing modes. IllegalMode is used by encodings that halt the real
// processor, they take no operands.
const (
	IllegalMode AddressingMode = iota
	Implicit
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect
	IndirectIndexed
	Relative
)

var addressingNames = [...]string{
	IllegalMode:     "illegal",
	Implicit:        "implicit",
	Accumulator:     "accumulator",
	Immediate:       "immediate",
	ZeroPage:        "zero page",
	ZeroPageX:       "zero page,X",
	ZeroPageY:       "zero page,Y",
	Absolute:        "absolute",
	AbsoluteX:       "absolute,X",
	AbsoluteY:       "absolute,Y",
	Indirect:        "indirect",
	IndexedIndirect: "(indirect,X)",
	IndirectIndexed: "(indirect),Y",
	Relative:        "relative",
}

func (m AddressingMode) String() string {
	if int(m) < len(addressingNames) {
		return addressingNames[m]
	}
	return fmt.Sprintf("AddressingMode(%d)", m)
}

// Instruction is a decoded opcode.
type Instruction struct {
	Opcode uint8
	Type   InstructionType
	Mode   AddressingMode
}

// Decode returns the decoded instruction for an opcode byte.
func Decode(opcode uint8) Instruction {
	return Instruction{
		Opcode: opcode,
		Type:   DecodeType(opcode),
		Mode:   DecodeMode(opcode),
	}
}

// Length returns the encoded size of the instruction in bytes.
func (i Instruction) Length() int {
	return 1 + OperandCount(i.Mode)
}
