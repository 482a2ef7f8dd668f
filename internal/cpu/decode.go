package cpu

// The opcode matrix is laid out as aaabbbcc. The two low bits select one of
// four columns, aaa selects the operation and bbb the addressing mode.

// controlTypes is indexed by [bbb][aaa] for the control and branch column.
var controlTypes = [8][8]InstructionType{
	{BRK, JSR, RTI, RTS, Illegal, LDY, CPY, CPX},
	{Illegal, BIT, Illegal, Illegal, STY, LDY, CPY, CPX},
	{PHP, PLP, PHA, PLA, DEY, TAY, INY, INX},
	{Illegal, BIT, JMP, JMP, STY, LDY, CPY, CPX},
	{BPL, BMI, BVC, BVS, BCC, BCS, BNE, BEQ},
	{Illegal, Illegal, Illegal, Illegal, STY, LDY, Illegal, Illegal},
	{CLC, SEC, CLI, SEI, TYA, CLV, CLD, SED},
	{Illegal, Illegal, Illegal, Illegal, Illegal, LDY, Illegal, Illegal},
}

var controlModes = [8]AddressingMode{
	Implicit, ZeroPage, Implicit, Absolute, Relative, ZeroPageX, Implicit, AbsoluteX,
}

// aluTypes is indexed by aaa for the accumulator arithmetic column.
var aluTypes = [8]InstructionType{ORA, AND, EOR, ADC, STA, LDA, CMP, SBC}

var aluModes = [8]AddressingMode{
	IndexedIndirect, ZeroPage, Immediate, Absolute, IndirectIndexed, ZeroPageX, AbsoluteY, AbsoluteX,
}

// shiftTypes is indexed by aaa for the shift, load, store and index column.
var shiftTypes = [8]InstructionType{ASL, ROL, LSR, ROR, STX, LDX, DEC, INC}

// transferTypes holds the implied register operations of the shift column
// at bbb=2, the lower half of the rows shifts the accumulator instead.
var transferTypes = [8]InstructionType{ASL, ROL, LSR, ROR, TXA, TAX, DEX, NOP}

var shiftModes = [8]AddressingMode{
	Immediate, ZeroPage, Accumulator, Absolute, IllegalMode, ZeroPageX, Implicit, AbsoluteX,
}

// DecodeType returns the instruction type of an opcode. Every byte maps to a
// type, undocumented encodings return Illegal.
func DecodeType(opcode uint8) InstructionType {
	aaa := opcode >> 5
	bbb := (opcode >> 2) & 7

	switch opcode & 3 {
	case 0:
		return controlTypes[bbb][aaa]

	case 1:
		if opcode == 0x89 { // STA immediate
			return Illegal
		}
		return aluTypes[aaa]

	case 2:
		return decodeShiftType(aaa, bbb)

	default:
		return Illegal
	}
}

func decodeShiftType(aaa, bbb uint8) InstructionType {
	switch bbb {
	case 0:
		if aaa == 5 {
			return LDX
		}
		return Illegal
	case 2:
		return transferTypes[aaa]
	case 4:
		return Illegal
	case 6:
		switch aaa {
		case 4:
			return TXS
		case 5:
			return TSX
		}
		return Illegal
	case 7:
		if aaa == 4 {
			return Illegal
		}
	}
	return shiftTypes[aaa]
}

// DecodeMode returns the addressing mode of an opcode. Every byte maps to a
// mode, encodings that jam the processor return IllegalMode.
func DecodeMode(opcode uint8) AddressingMode {
	aaa := opcode >> 5
	bbb := (opcode >> 2) & 7

	switch opcode & 3 {
	case 0:
		return decodeControlMode(aaa, bbb)

	case 1:
		return aluModes[bbb]

	case 2:
		return decodeShiftMode(aaa, bbb)

	default:
		return decodeUnusedMode(aaa, bbb)
	}
}

func decodeControlMode(aaa, bbb uint8) AddressingMode {
	switch {
	case bbb == 0 && aaa == 1:
		return Absolute // JSR
	case bbb == 0 && aaa >= 4:
		return Immediate
	case bbb == 3 && aaa == 3:
		return Indirect // JMP ($nnnn)
	}
	return controlModes[bbb]
}

func decodeShiftMode(aaa, bbb uint8) AddressingMode {
	switch bbb {
	case 0:
		if aaa < 4 {
			return IllegalMode
		}
	case 2:
		if aaa >= 4 {
			return Implicit
		}
	case 5:
		if aaa == 4 || aaa == 5 {
			return ZeroPageY
		}
	case 7:
		if aaa == 4 || aaa == 5 {
			return AbsoluteY
		}
	}
	return shiftModes[bbb]
}

// decodeUnusedMode mirrors the arithmetic column so that undocumented
// encodings consume the operand bytes they occupy in the stream.
func decodeUnusedMode(aaa, bbb uint8) AddressingMode {
	if aaa == 4 || aaa == 5 {
		switch bbb {
		case 5:
			return ZeroPageY
		case 7:
			return AbsoluteY
		}
	}
	return aluModes[bbb]
}

// OperandCount returns the number of operand bytes that follow an opcode
// using the given addressing mode.
func OperandCount(mode AddressingMode) int {
	switch mode {
	case IllegalMode, Implicit, Accumulator:
		return 0
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 2
	default:
		return 1
	}
}
