package cpu

import "fmt"

type microOpKind uint8

const (
	opIdle microOpKind = iota
	opRead
	opWrite
	opExecute
	opModify
	opBranchSettle
	opSkipSignature
	opPushReturnHigh
	opPushReturnLow
	opPushA
	opPushStatus
	opPushStatusInterrupt
	opPullA
	opPullStatus
	opPullPCL
	opPullPCH
	opIncrementPC
	opLoadVector
)

// microOp is one unit of queued work. A cost of 1 occupies a bus cycle,
// a cost of 0 overlaps with other work of the same cycle.
type microOp struct {
	kind microOpKind
	cost uint8
}

// queue is the FIFO of micro-ops of the instruction in flight.
type queue struct {
	ops  []microOp
	head int
}

func (q *queue) push(kind microOpKind, cost uint8) {
	q.ops = append(q.ops, microOp{kind: kind, cost: cost})
}

func (q *queue) empty() bool {
	return q.head == len(q.ops)
}

func (q *queue) peek() (microOp, error) {
	if q.empty() {
		return microOp{}, ErrQueueEmpty
	}
	return q.ops[q.head], nil
}

func (q *queue) pop() (microOp, error) {
	op, err := q.peek()
	if err != nil {
		return op, err
	}
	q.head++
	if q.empty() {
		q.reset()
	}
	return op, nil
}

func (q *queue) reset() {
	q.ops = q.ops[:0]
	q.head = 0
}

// step runs a single micro-op.
func (c *CPU) step(op microOp) error {
	switch op.kind {
	case opIdle, opBranchSettle:

	case opRead:
		value, err := c.bus.Read(c.address)
		if err != nil {
			return fmt.Errorf("reading operand: %w", err)
		}
		c.value = value

	case opWrite:
		if err := c.bus.Write(c.address, c.value); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}

	case opExecute:
		c.run()

	case opModify:
		// the unmodified value is written back while the result is computed
		if err := c.bus.Write(c.address, c.value); err != nil {
			return fmt.Errorf("writing back operand: %w", err)
		}
		c.value = c.modify(c.value)

	case opSkipSignature:
		c.PC++

	case opPushReturnHigh:
		return c.push(uint8(c.returnAddress >> 8))

	case opPushReturnLow:
		return c.push(uint8(c.returnAddress))

	case opPushA:
		return c.push(c.A)

	case opPushStatus:
		return c.push(c.P.pushValue())

	case opPushStatusInterrupt:
		return c.push(c.P.Value() &^ uint8(FlagBreak))

	case opPullA:
		value, err := c.pull()
		if err != nil {
			return err
		}
		c.A = value
		c.P.setZN(value)

	case opPullStatus:
		value, err := c.pull()
		if err != nil {
			return err
		}
		c.P = pulled(value)

	case opPullPCL:
		value, err := c.pull()
		if err != nil {
			return err
		}
		c.PC = c.PC&0xff00 | uint16(value)

	case opPullPCH:
		value, err := c.pull()
		if err != nil {
			return err
		}
		c.PC = c.PC&0x00ff | uint16(value)<<8

	case opIncrementPC:
		c.PC++

	case opLoadVector:
		pc, err := c.bus.ReadWord(c.vector)
		if err != nil {
			return fmt.Errorf("reading vector $%04X: %w", c.vector, err)
		}
		c.PC = pc
		c.P.SetInterrupt(true)

	default:
		return fmt.Errorf("%w: %d", ErrUnknownMicroOp, op.kind)
	}
	return nil
}

// push stores a byte on the stack page. The stack pointer wraps around.
func (c *CPU) push(value uint8) error {
	if err := c.bus.Write(stackBase|uint16(c.SP), value); err != nil {
		return fmt.Errorf("pushing to stack: %w", err)
	}
	c.SP--
	return nil
}

// pull loads a byte from the stack page. The stack pointer wraps around.
func (c *CPU) pull() (uint8, error) {
	c.SP++
	value, err := c.bus.Read(stackBase | uint16(c.SP))
	if err != nil {
		return 0, fmt.Errorf("pulling from stack: %w", err)
	}
	return value, nil
}
