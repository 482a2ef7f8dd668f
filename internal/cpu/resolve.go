package cpu

import "fmt"

// access classifies the bus cycle an instruction needs for its operand.
type access uint8

const (
	accessNone access = iota
	accessRead
	accessWrite
)

func accessOf(t InstructionType) access {
	switch t {
	case STA, STX, STY:
		return accessWrite
	case JMP, JSR, BCC, BCS, BEQ, BMI, BNE, BPL, BVC, BVS:
		return accessNone
	default:
		return accessRead
	}
}

// resolve computes the effective address or value of the instruction in
// flight from its operand bytes and queues the bus cycle for memory modes.
// Pointer reads of the indirect modes happen immediately.
func (c *CPU) resolve() error {
	ins := c.instruction
	op := c.operands[0]
	word := uint16(c.operands[1])<<8 | uint16(op)
	memory := true

	switch ins.Mode {
	case Immediate:
		c.value = op
		memory = false

	case Accumulator:
		c.value = c.A
		memory = false

	case Implicit, IllegalMode:
		memory = false

	case Relative:
		c.address = c.PC + uint16(int8(op))
		memory = false

	case ZeroPage:
		c.address = uint16(op)

	case ZeroPageX:
		c.address = uint16(op + c.X)

	case ZeroPageY:
		c.address = uint16(op + c.Y)

	case Absolute:
		c.address = word

	case AbsoluteX:
		c.address = word + uint16(c.X)

	case AbsoluteY:
		c.address = word + uint16(c.Y)

	case Indirect:
		pointer, err := c.bus.ReadWord(word)
		if err != nil {
			return fmt.Errorf("reading indirect pointer $%04X: %w", word, err)
		}
		c.address = pointer
		memory = false

	case IndexedIndirect:
		pointer, err := c.zeroPageWord(op + c.X)
		if err != nil {
			return err
		}
		c.address = pointer

	case IndirectIndexed:
		pointer, err := c.zeroPageWord(op)
		if err != nil {
			return err
		}
		c.address = pointer + uint16(c.Y)

	default:
		return fmt.Errorf("unsupported addressing mode %s", ins.Mode)
	}

	if !memory {
		return nil
	}
	switch accessOf(ins.Type) {
	case accessRead:
		c.queue.push(opRead, 1)
	case accessWrite:
		c.queue.push(opWrite, 1)
	case accessNone:
	}
	return nil
}

// zeroPageWord reads a pointer from the zero page, the high byte wraps
// around within the page.
func (c *CPU) zeroPageWord(address uint8) (uint16, error) {
	low, err := c.bus.Read(uint16(address))
	if err != nil {
		return 0, fmt.Errorf("reading zero page pointer: %w", err)
	}
	high, err := c.bus.Read(uint16(address + 1))
	if err != nil {
		return 0, fmt.Errorf("reading zero page pointer: %w", err)
	}
	return uint16(high)<<8 | uint16(low), nil
}
