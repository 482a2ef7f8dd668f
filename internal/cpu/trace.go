package cpu

// Snapshot describes a completed instruction. The registers and the cycle
// counter are captured when the opcode was fetched.
type Snapshot struct {
	PC          uint16
	Instruction Instruction
	Operands    []uint8
	Registers   Registers
	Cycle       uint64
}

// Bytes returns the encoded instruction.
func (s Snapshot) Bytes() []uint8 {
	b := make([]uint8, 0, 1+len(s.Operands))
	b = append(b, s.Instruction.Opcode)
	return append(b, s.Operands...)
}

// Tracer receives a snapshot of every completed instruction.
type Tracer interface {
	Trace(s Snapshot)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(s Snapshot)

// Trace calls f(s).
func (f TracerFunc) Trace(s Snapshot) {
	f(s)
}
