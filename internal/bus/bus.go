// Package bus defines the byte addressable bus the processor core talks to and
// provides the reference collaborator that maps the console address space.
package bus

import (
	"errors"
	"fmt"
)

// ProgramLoadAddress is the fixed address at which a staged program image
// becomes visible to the processor.
const ProgramLoadAddress uint16 = 0xC000

// ErrUnmappedAddress is returned for accesses that no device claims.
var ErrUnmappedAddress = errors.New("unmapped address")

// Access describes the kind of bus access that failed.
type Access string

// Bus access kinds.
const (
	AccessRead  Access = "read"
	AccessWrite Access = "write"
)

// AddressError is returned by a bus for an access outside any mapped region.
type AddressError struct {
	Access  Access
	Address uint16
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%s of address $%04X: %s", e.Access, e.Address, ErrUnmappedAddress)
}

// Unwrap returns the sentinel error to allow errors.Is checks.
func (e *AddressError) Unwrap() error {
	return ErrUnmappedAddress
}

// Bus is the contract the processor core consumes. All methods must be total
// over the 16 bit address space, an unmapped address is signaled by an error.
type Bus interface {
	// Read returns the byte at the given address.
	Read(address uint16) (uint8, error)
	// Write stores a byte at the given address.
	Write(address uint16, value uint8) error
	// ReadWord returns the little endian word at address and address+1.
	ReadWord(address uint16) (uint16, error)
}

// ProgramLoader is implemented by buses that own program storage.
type ProgramLoader interface {
	// LoadProgram stages a raw executable image so that its first byte is
	// visible at ProgramLoadAddress.
	LoadProgram(data []byte) error
}

// Powerable is implemented by devices that react to power and reset events.
type Powerable interface {
	PowerOn()
	Reset()
}

// readWord composes a little endian word from two byte reads.
func readWord(b Bus, address uint16) (uint16, error) {
	low, err := b.Read(address)
	if err != nil {
		return 0, err
	}
	high, err := b.Read(address + 1)
	if err != nil {
		return 0, err
	}
	return uint16(high)<<8 | uint16(low), nil
}
