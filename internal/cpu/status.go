package cpu

import "strings"

// Status is the packed processor status register.
type Status uint8

// Status register bits.
const (
	FlagCarry Status = 1 << iota
	FlagZero
	FlagInterrupt
	FlagDecimal
	FlagBreak
	FlagReserved
	FlagOverflow
	FlagNegative
)

const statusLabels = "czidb-vn"

// NewStatus returns a status register initialized from a raw byte. The
// reserved bit is always set.
func NewStatus(value uint8) Status {
	return Status(value) | FlagReserved
}

// Value returns the register as byte, the reserved bit always reads as 1.
func (s Status) Value() uint8 {
	return uint8(s | FlagReserved)
}

// pushValue returns the byte stored by PHP and BRK.
func (s Status) pushValue() uint8 {
	return s.Value() | uint8(FlagBreak)
}

// pulled returns the register restored by PLP and RTI. The break bit does
// not exist in the register itself and the reserved bit is fixed.
func pulled(value uint8) Status {
	return (Status(value) &^ FlagBreak) | FlagReserved
}

// Carry reports whether the carry flag is set.
func (s Status) Carry() bool { return s&FlagCarry != 0 }

// Zero reports whether the zero flag is set.
func (s Status) Zero() bool { return s&FlagZero != 0 }

// Interrupt reports whether the interrupt disable flag is set.
func (s Status) Interrupt() bool { return s&FlagInterrupt != 0 }

// Decimal reports whether the decimal flag is set.
func (s Status) Decimal() bool { return s&FlagDecimal != 0 }

// Break reports whether the break flag is set.
func (s Status) Break() bool { return s&FlagBreak != 0 }

// Overflow reports whether the overflow flag is set.
func (s Status) Overflow() bool { return s&FlagOverflow != 0 }

// Negative reports whether the negative flag is set.
func (s Status) Negative() bool { return s&FlagNegative != 0 }

// SetCarry sets or clears the carry flag.
func (s *Status) SetCarry(v bool) { s.set(FlagCarry, v) }

// SetZero sets or clears the zero flag.
func (s *Status) SetZero(v bool) { s.set(FlagZero, v) }

// SetInterrupt sets or clears the interrupt disable flag.
func (s *Status) SetInterrupt(v bool) { s.set(FlagInterrupt, v) }

// SetDecimal sets or clears the decimal flag.
func (s *Status) SetDecimal(v bool) { s.set(FlagDecimal, v) }

// SetBreak sets or clears the break flag.
func (s *Status) SetBreak(v bool) { s.set(FlagBreak, v) }

// SetOverflow sets or clears the overflow flag.
func (s *Status) SetOverflow(v bool) { s.set(FlagOverflow, v) }

// SetNegative sets or clears the negative flag.
func (s *Status) SetNegative(v bool) { s.set(FlagNegative, v) }

func (s *Status) set(flag Status, v bool) {
	if v {
		*s |= flag
	} else {
		*s &^= flag
	}
	*s |= FlagReserved
}

// setZN updates the zero and negative flags from a result.
func (s *Status) setZN(value uint8) {
	s.SetZero(value == 0)
	s.SetNegative(value&0x80 != 0)
}

// String returns the flags from bit 7 to bit 0, set flags are upper case.
func (s Status) String() string {
	var sb strings.Builder
	for bit := 7; bit >= 0; bit-- {
		label := statusLabels[bit]
		if s.Value()&(1<<bit) != 0 {
			label = strings.ToUpper(string(label))[0]
		}
		sb.WriteByte(label)
	}
	return sb.String()
}
