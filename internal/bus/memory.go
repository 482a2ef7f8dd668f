package bus

import "fmt"

var _ Bus = &Memory{}
var _ ProgramLoader = &Memory{}

// Memory is a flat 64 KiB bus without any device mapping. Every address is
// backed by plain storage which makes it useful for tests and for running
// raw 6502 programs that do not expect console hardware.
type Memory struct {
	data [0x10000]uint8
}

// NewMemory returns a zeroed flat memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) (uint8, error) {
	return m.data[address], nil
}

// Write stores a byte at the given address.
func (m *Memory) Write(address uint16, value uint8) error {
	m.data[address] = value
	return nil
}

// ReadWord returns the little endian word at address and address+1.
func (m *Memory) ReadWord(address uint16) (uint16, error) {
	return readWord(m, address)
}

// LoadProgram copies data to ProgramLoadAddress.
func (m *Memory) LoadProgram(data []byte) error {
	return m.Load(ProgramLoadAddress, data)
}

// Load copies data into memory starting at address.
func (m *Memory) Load(address uint16, data []byte) error {
	if int(address)+len(data) > len(m.data) {
		return fmt.Errorf("image of %d bytes does not fit at $%04X", len(data), address)
	}
	copy(m.data[address:], data)
	return nil
}

// SetWord stores a little endian word, used to set up vectors.
func (m *Memory) SetWord(address, value uint16) {
	m.data[address] = uint8(value)
	m.data[address+1] = uint8(value >> 8)
}
