// Package cpu implements a cycle accurate 6502 processor core as used by the
// NES, driven one clock tick at a time.
package cpu

import (
	"errors"
	"fmt"

	"github.com/retroenv/nesgoemu/internal/bus"
	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
)

// Vector addresses holding the program counter targets of the interrupts.
const (
	NMIVector   uint16 = cpu6502.NMIAddress
	ResetVector uint16 = cpu6502.ResetAddress
	IRQVector   uint16 = cpu6502.IrqAddress
)

const (
	stackBase    = 0x0100
	initialSP    = 0xfd
	resetCycles  = 7
	maxOperands  = 2
	queueReserve = 8
)

var (
	// ErrQueueEmpty indicates that an instruction is in flight without any
	// remaining work, which is an internal consistency violation.
	ErrQueueEmpty = errors.New("micro-op queue is empty")
	// ErrUnknownMicroOp is returned when a queued micro-op has no handler.
	ErrUnknownMicroOp = errors.New("unknown micro-op")
	// ErrNoProgramStorage is returned by LoadProgram when the bus can not
	// store a program.
	ErrNoProgramStorage = errors.New("bus has no program storage")
	// ErrMidInstruction is returned for operations that are only valid
	// between instructions.
	ErrMidInstruction = errors.New("instruction in flight")
)

type state uint8

const (
	stateAwaitingOpcode state = iota
	stateAwaitingOperands
	stateExecuting
	stateInterrupting
)

// Registers is the programmer visible register set.
type Registers struct {
	A  uint8
	X  uint8
	Y  uint8
	PC uint16
	SP uint8
	P  Status
}

// CPU is the processor core. It exclusively owns its registers and the
// state of the instruction in flight, all memory accesses go through the
// bus it was created with.
type CPU struct {
	Registers

	bus    bus.Bus
	tracer Tracer

	state       state
	instruction Instruction
	operands    [maxOperands]uint8
	operandLen  int
	queue       queue
	decoded     bool // decode completed during the current tick

	address       uint16 // effective address of the instruction in flight
	value         uint8  // operand value or value staged for writing
	returnAddress uint16
	vector        uint16

	snapshot Snapshot

	nmiPending bool
	irqLine    bool

	cycles       uint64
	instructions uint64
	illegal      uint64
}

// New returns a processor connected to the given bus. The processor needs to
// be powered on before ticking it.
func New(b bus.Bus) *CPU {
	c := &CPU{
		bus: b,
	}
	c.queue.ops = make([]microOp, 0, queueReserve)
	c.P = NewStatus(0)
	return c
}

// SetTracer installs a sink that receives a snapshot of every completed
// instruction. Passing nil disables tracing.
func (c *CPU) SetTracer(t Tracer) {
	c.tracer = t
}

// PowerOn initializes all registers, clears the in flight state and loads
// the program counter from the reset vector. The cycle counter starts at 7,
// the cycles spent by the reset sequence, matching the nestest log.
func (c *CPU) PowerOn() error {
	if p, ok := c.bus.(bus.Powerable); ok {
		p.PowerOn()
	}

	c.A = 0
	c.X = 0
	c.Y = 0
	c.SP = initialSP
	c.P = NewStatus(uint8(FlagInterrupt))
	c.nmiPending = false
	c.irqLine = false
	c.instructions = 0
	c.illegal = 0
	return c.restart()
}

// Reset reloads the program counter from the reset vector, moves the stack
// pointer down by 3 and disables interrupts. A, X and Y are kept.
func (c *CPU) Reset() error {
	if p, ok := c.bus.(bus.Powerable); ok {
		p.Reset()
	}

	c.SP -= 3
	c.P.SetInterrupt(true)
	c.nmiPending = false
	return c.restart()
}

func (c *CPU) restart() error {
	c.clearInFlight()
	c.cycles = resetCycles

	pc, err := c.bus.ReadWord(ResetVector)
	if err != nil {
		return fmt.Errorf("reading reset vector: %w", err)
	}
	c.PC = pc
	return nil
}

func (c *CPU) clearInFlight() {
	c.state = stateAwaitingOpcode
	c.operandLen = 0
	c.queue.reset()
	c.decoded = false
}

// LoadProgram stages a raw program image in the program storage of the bus.
func (c *CPU) LoadProgram(data []byte) error {
	loader, ok := c.bus.(bus.ProgramLoader)
	if !ok {
		return ErrNoProgramStorage
	}
	if err := loader.LoadProgram(data); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	return nil
}

// SetPC moves the program counter. It is only valid between instructions.
func (c *CPU) SetPC(pc uint16) error {
	if !c.Quiescent() {
		return fmt.Errorf("setting program counter: %w", ErrMidInstruction)
	}
	c.PC = pc
	return nil
}

// Quiescent returns whether no instruction is in flight.
func (c *CPU) Quiescent() bool {
	return c.state == stateAwaitingOpcode && c.queue.empty()
}

// Cycles returns the number of elapsed clock cycles.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Instructions returns the number of completed instructions.
func (c *CPU) Instructions() uint64 {
	return c.instructions
}

// IllegalCount returns the number of executed undocumented opcodes.
func (c *CPU) IllegalCount() uint64 {
	return c.illegal
}

// Tick advances the processor by one clock cycle. A returned error is fatal,
// it signals an unmapped bus access or an internal inconsistency.
func (c *CPU) Tick() error {
	c.decoded = false

	if c.Quiescent() {
		c.pollInterrupts()
	}
	if err := c.fetch(); err != nil {
		return err
	}
	if err := c.decode(); err != nil {
		return err
	}
	if err := c.execute(); err != nil {
		return err
	}

	c.cycles++
	return nil
}

// Step ticks until the next instruction or interrupt sequence completed and
// returns the number of cycles it took.
func (c *CPU) Step() (int, error) {
	var ticks int
	for {
		if err := c.Tick(); err != nil {
			return ticks, err
		}
		ticks++
		if c.Quiescent() {
			return ticks, nil
		}
	}
}

// fetch reads the next opcode or operand byte unless micro-ops are pending.
func (c *CPU) fetch() error {
	if !c.queue.empty() || c.state == stateExecuting || c.state == stateInterrupting {
		return nil
	}

	registers := c.Registers
	b, err := c.bus.Read(registers.PC)
	if err != nil {
		return fmt.Errorf("fetching from $%04X: %w", registers.PC, err)
	}
	c.PC++

	if c.state == stateAwaitingOpcode {
		c.instruction = Decode(b)
		c.operandLen = 0
		c.state = stateAwaitingOperands
		c.snapshot = Snapshot{
			PC:          registers.PC,
			Instruction: c.instruction,
			Registers:   registers,
			Cycle:       c.cycles,
		}
		return nil
	}

	c.operands[c.operandLen] = b
	c.operandLen++
	return nil
}

// decode schedules the instruction once all its operand bytes are fetched.
func (c *CPU) decode() error {
	if c.state != stateAwaitingOperands {
		return nil
	}
	if c.operandLen < OperandCount(c.instruction.Mode) {
		return nil
	}
	if c.operandLen < maxOperands {
		clear(c.operands[c.operandLen:])
	}

	if err := c.schedule(); err != nil {
		return fmt.Errorf("decoding %s at $%04X: %w", c.instruction.Type, c.snapshot.PC, err)
	}
	c.state = stateExecuting
	c.decoded = true
	return nil
}

// execute drains the queue within the budget of the current tick. When the
// opcode fetch used this cycle only free micro-ops run, otherwise one bus
// cycle worth of micro-ops.
func (c *CPU) execute() error {
	if c.state != stateExecuting && c.state != stateInterrupting {
		return nil
	}
	if c.queue.empty() && !c.decoded {
		return fmt.Errorf("executing %s at $%04X: %w", c.instruction.Type, c.snapshot.PC, ErrQueueEmpty)
	}

	budget := 2
	if c.decoded {
		budget = 1
	}

	var spent int
	for !c.queue.empty() {
		next, err := c.queue.peek()
		if err != nil {
			return err
		}
		if spent+int(next.cost) >= budget {
			break
		}

		op, err := c.queue.pop()
		if err != nil {
			return err
		}
		spent += int(op.cost)
		if err := c.step(op); err != nil {
			return fmt.Errorf("executing %s at $%04X: %w", c.instruction.Type, c.snapshot.PC, err)
		}
	}

	if c.queue.empty() {
		c.finish()
	}
	return nil
}

// finish completes the instruction or interrupt sequence in flight.
func (c *CPU) finish() {
	if c.state == stateExecuting {
		c.instructions++
		if c.instruction.Type == Illegal {
			c.illegal++
		}
		if c.tracer != nil {
			c.snapshot.Operands = append([]uint8(nil), c.operands[:c.operandLen]...)
			c.tracer.Trace(c.snapshot)
		}
	}
	c.clearInFlight()
}
