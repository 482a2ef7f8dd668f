package cpu

// schedule builds the micro-op list of a completely fetched instruction.
func (c *CPU) schedule() error {
	ins := c.instruction

	switch ins.Type {
	case Illegal:
		// documented no-op, only the fetch cycles are spent

	case BRK:
		c.returnAddress = c.PC + 1
		c.vector = IRQVector
		c.queue.push(opSkipSignature, 0)
		c.queue.push(opPushReturnHigh, 1)
		c.queue.push(opPushReturnLow, 1)
		c.queue.push(opPushStatus, 1)
		c.queue.push(opLoadVector, 1)
		c.queue.push(opIdle, 1)

	case JSR:
		if err := c.resolve(); err != nil {
			return err
		}
		c.returnAddress = c.PC - 1
		c.queue.push(opIdle, 1)
		c.queue.push(opPushReturnHigh, 1)
		c.queue.push(opPushReturnLow, 1)
		c.queue.push(opExecute, 0)

	case RTS:
		c.queue.push(opIdle, 1)
		c.queue.push(opPullPCL, 1)
		c.queue.push(opPullPCH, 1)
		c.queue.push(opIncrementPC, 1)

	case RTI:
		c.queue.push(opIdle, 1)
		c.queue.push(opPullStatus, 1)
		c.queue.push(opPullPCL, 1)
		c.queue.push(opPullPCH, 1)

	case PHA:
		c.queue.push(opPushA, 1)

	case PHP:
		c.queue.push(opPushStatus, 1)

	case PLA:
		c.queue.push(opIdle, 1)
		c.queue.push(opPullA, 1)

	case PLP:
		c.queue.push(opIdle, 1)
		c.queue.push(opPullStatus, 1)

	case STA, STX, STY:
		if err := c.resolve(); err != nil {
			return err
		}
		c.value = c.storeValue(ins.Type)

	case ASL, LSR, ROL, ROR, INC, DEC:
		if err := c.resolve(); err != nil {
			return err
		}
		if ins.Mode == Accumulator {
			c.queue.push(opExecute, 0)
		} else {
			c.queue.push(opModify, 1)
			c.queue.push(opWrite, 1)
		}

	default:
		if err := c.resolve(); err != nil {
			return err
		}
		c.queue.push(opExecute, 0)
	}

	// instructions without operands still take the minimum of two cycles
	if OperandCount(ins.Mode) == 0 {
		c.queue.push(opIdle, 1)
	}
	return nil
}

func (c *CPU) storeValue(t InstructionType) uint8 {
	switch t {
	case STX:
		return c.X
	case STY:
		return c.Y
	default:
		return c.A
	}
}

// run executes the instruction in flight on the resolved operand.
func (c *CPU) run() {
	switch c.instruction.Type {
	case ADC:
		c.add(c.value)
	case SBC:
		c.add(^c.value)
	case AND:
		c.A &= c.value
		c.P.setZN(c.A)
	case ORA:
		c.A |= c.value
		c.P.setZN(c.A)
	case EOR:
		c.A ^= c.value
		c.P.setZN(c.A)
	case BIT:
		c.P.SetZero(c.A&c.value == 0)
		c.P.SetOverflow(c.value&0x40 != 0)
		c.P.SetNegative(c.value&0x80 != 0)

	case ASL, LSR, ROL, ROR:
		c.A = c.shift(c.value)

	case CMP:
		c.compare(c.A, c.value)
	case CPX:
		c.compare(c.X, c.value)
	case CPY:
		c.compare(c.Y, c.value)

	case BCC:
		c.branch(!c.P.Carry())
	case BCS:
		c.branch(c.P.Carry())
	case BNE:
		c.branch(!c.P.Zero())
	case BEQ:
		c.branch(c.P.Zero())
	case BPL:
		c.branch(!c.P.Negative())
	case BMI:
		c.branch(c.P.Negative())
	case BVC:
		c.branch(!c.P.Overflow())
	case BVS:
		c.branch(c.P.Overflow())

	case CLC:
		c.P.SetCarry(false)
	case CLD:
		c.P.SetDecimal(false)
	case CLI:
		c.P.SetInterrupt(false)
	case CLV:
		c.P.SetOverflow(false)
	case SEC:
		c.P.SetCarry(true)
	case SED:
		c.P.SetDecimal(true)
	case SEI:
		c.P.SetInterrupt(true)

	case DEX:
		c.X--
		c.P.setZN(c.X)
	case DEY:
		c.Y--
		c.P.setZN(c.Y)
	case INX:
		c.X++
		c.P.setZN(c.X)
	case INY:
		c.Y++
		c.P.setZN(c.Y)

	case JMP, JSR:
		c.PC = c.address

	case LDA:
		c.A = c.value
		c.P.setZN(c.A)
	case LDX:
		c.X = c.value
		c.P.setZN(c.X)
	case LDY:
		c.Y = c.value
		c.P.setZN(c.Y)

	case TAX:
		c.X = c.A
		c.P.setZN(c.X)
	case TAY:
		c.Y = c.A
		c.P.setZN(c.Y)
	case TSX:
		c.X = c.SP
		c.P.setZN(c.X)
	case TXA:
		c.A = c.X
		c.P.setZN(c.A)
	case TYA:
		c.A = c.Y
		c.P.setZN(c.A)
	case TXS:
		c.SP = c.X

	case NOP:
	}
}

// modify computes the result of a read-modify-write instruction on memory.
func (c *CPU) modify(value uint8) uint8 {
	switch c.instruction.Type {
	case INC:
		value++
		c.P.setZN(value)
		return value
	case DEC:
		value--
		c.P.setZN(value)
		return value
	default:
		return c.shift(value)
	}
}

// add adds with carry. Subtraction passes the inverted operand. Overflow is
// the carry into bit 7 differing from the carry out of it. Decimal mode is
// not supported by the console processor.
func (c *CPU) add(value uint8) {
	var carryIn uint8
	if c.P.Carry() {
		carryIn = 1
	}
	sum := uint16(c.A) + uint16(value) + uint16(carryIn)
	carry6 := ((c.A&0x7f)+(value&0x7f)+carryIn)&0x80 != 0
	carry := sum > 0xff

	c.P.SetCarry(carry)
	c.P.SetOverflow(carry6 != carry)
	c.A = uint8(sum)
	c.P.setZN(c.A)
}

func (c *CPU) compare(register, value uint8) {
	c.P.SetCarry(register >= value)
	c.P.setZN(register - value)
}

func (c *CPU) shift(value uint8) uint8 {
	var carryIn uint8
	if c.P.Carry() {
		carryIn = 1
	}

	var result uint8
	switch c.instruction.Type {
	case ASL:
		c.P.SetCarry(value&0x80 != 0)
		result = value << 1
	case LSR:
		c.P.SetCarry(value&0x01 != 0)
		result = value >> 1
	case ROL:
		c.P.SetCarry(value&0x80 != 0)
		result = value<<1 | carryIn
	case ROR:
		c.P.SetCarry(value&0x01 != 0)
		result = value>>1 | carryIn<<7
	}
	c.P.setZN(result)
	return result
}

// branch moves the program counter to the resolved target. A taken branch
// costs one extra cycle and another one if the target is on a different
// page than the following instruction.
func (c *CPU) branch(taken bool) {
	if !taken {
		return
	}
	c.queue.push(opBranchSettle, 1)
	if c.PC&0xff00 != c.address&0xff00 {
		c.queue.push(opBranchSettle, 1)
	}
	c.PC = c.address
}
