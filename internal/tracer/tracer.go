// Package tracer provides sinks for the per instruction snapshots of the
// processor core.
package tracer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/nesgoemu/internal/cpu"
	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrogolib/log"
)

var _ cpu.Tracer = &Writer{}
var _ cpu.Tracer = &Logger{}

// Writer writes snapshots in the line format of the nestest reference log:
//
//	C000  4C F5 C5  JMP $C5F5                       A:00 X:00 Y:00 P:24 SP:FD CYC:7
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a trace writer that outputs to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Trace writes a single line. After the first write error all further
// snapshots are dropped, the error is available through Err.
func (w *Writer) Trace(s cpu.Snapshot) {
	if w.err != nil {
		return
	}
	if _, err := fmt.Fprintln(w.w, Format(s)); err != nil {
		w.err = fmt.Errorf("writing trace line: %w", err)
	}
}

// Err returns the first write error.
func (w *Writer) Err() error {
	return w.err
}

// Logger emits every snapshot as debug log message.
type Logger struct {
	logger *log.Logger
}

// NewLogger returns a tracer that logs to the given logger.
func NewLogger(logger *log.Logger) *Logger {
	return &Logger{logger: logger}
}

// Trace logs the snapshot.
func (l *Logger) Trace(s cpu.Snapshot) {
	r := s.Registers
	l.logger.Debug("Executed instruction",
		log.Hex("pc", s.PC),
		log.String("instruction", Disassemble(s)),
		log.Hex("a", r.A),
		log.Hex("x", r.X),
		log.Hex("y", r.Y),
		log.Hex("sp", r.SP),
		log.Stringer("flags", r.P),
		log.Int("cycle", int(s.Cycle)),
	)
}

// Multi returns a tracer that forwards every snapshot to all given tracers.
func Multi(tracers ...cpu.Tracer) cpu.Tracer {
	return cpu.TracerFunc(func(s cpu.Snapshot) {
		for _, t := range tracers {
			t.Trace(s)
		}
	})
}

// Format returns the trace line of a snapshot.
func Format(s cpu.Snapshot) string {
	var hexBytes strings.Builder
	for i, b := range s.Bytes() {
		if i > 0 {
			hexBytes.WriteByte(' ')
		}
		fmt.Fprintf(&hexBytes, "%02X", b)
	}

	r := s.Registers
	return fmt.Sprintf("%04X  %-8s  %-32s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		s.PC, hexBytes.String(), Disassemble(s), r.A, r.X, r.Y, r.P.Value(), r.SP, s.Cycle)
}

// Disassemble returns the assembly notation of the instruction of a
// snapshot. Undocumented opcodes are prefixed with an asterisk.
func Disassemble(s cpu.Snapshot) string {
	name := Mnemonic(s.Instruction)
	operand := Operand(s)
	if operand == "" {
		return name
	}
	return name + " " + operand
}

// Mnemonic returns the upper case mnemonic of an instruction.
func Mnemonic(ins cpu.Instruction) string {
	if ins.Type != cpu.Illegal {
		return ins.Type.String()
	}

	ref := cpu6502.Opcodes[ins.Opcode]
	if ref.Instruction == nil {
		return "*" + cpu.Illegal.String()
	}
	return "*" + strings.ToUpper(ref.Instruction.Name)
}

// Operand returns the formatted operand of the instruction of a snapshot.
func Operand(s cpu.Snapshot) string {
	var op uint8
	var word uint16
	if len(s.Operands) > 0 {
		op = s.Operands[0]
		word = uint16(op)
	}
	if len(s.Operands) > 1 {
		word |= uint16(s.Operands[1]) << 8
	}

	switch s.Instruction.Mode {
	case cpu.Accumulator:
		return "A"
	case cpu.Immediate:
		return fmt.Sprintf("#$%02X", op)
	case cpu.ZeroPage:
		return fmt.Sprintf("$%02X", op)
	case cpu.ZeroPageX:
		return fmt.Sprintf("$%02X,X", op)
	case cpu.ZeroPageY:
		return fmt.Sprintf("$%02X,Y", op)
	case cpu.Absolute:
		return fmt.Sprintf("$%04X", word)
	case cpu.AbsoluteX:
		return fmt.Sprintf("$%04X,X", word)
	case cpu.AbsoluteY:
		return fmt.Sprintf("$%04X,Y", word)
	case cpu.Indirect:
		return fmt.Sprintf("($%04X)", word)
	case cpu.IndexedIndirect:
		return fmt.Sprintf("($%02X,X)", op)
	case cpu.IndirectIndexed:
		return fmt.Sprintf("($%02X),Y", op)
	case cpu.Relative:
		target := s.PC + 2 + uint16(int8(op))
		return fmt.Sprintf("$%04X", target)
	default:
		return ""
	}
}
