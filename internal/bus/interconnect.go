package bus

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrogolib/arch/system/nes"
)

var errEmptyProgram = errors.New("empty program image")

var _ Bus = &Interconnect{}
var _ ProgramLoader = &Interconnect{}
var _ Powerable = &Interconnect{}

// Interconnect maps the console address space onto its devices:
//
//	$0000-$1FFF  2 KiB RAM, mirrored
//	$2000-$3FFF  8 PPU registers, mirrored
//	$4000-$401F  APU and I/O registers
//	$6000-$7FFF  PRG RAM
//	$8000-$FFFF  PRG ROM, a 16 KiB bank is mirrored
//
// Everything else, and PRG ROM before a program was loaded, is unmapped.
type Interconnect struct {
	ram  ram
	ppu  registerFile
	apu  registerFile
	cart cartridge
}

// NewInterconnect returns an interconnect without a loaded program.
func NewInterconnect() *Interconnect {
	return &Interconnect{
		ppu: newRegisterFile(ppuRegisters),
		apu: newRegisterFile(apuRegisters),
	}
}

// Read returns the byte at the given address.
func (i *Interconnect) Read(address uint16) (uint8, error) {
	switch {
	case address < 0x2000:
		return i.ram.read(address), nil
	case address < 0x4000:
		return i.ppu.read(address - 0x2000), nil
	case address < 0x4020:
		return i.apu.read(address - 0x4000), nil
	case address >= 0x6000 && address < 0x8000:
		return i.cart.prgRAM[address-0x6000], nil
	case address >= uint16(nes.CodeBaseAddress) && i.cart.loaded():
		return i.cart.readPRG(address), nil
	}
	return 0, &AddressError{Access: AccessRead, Address: address}
}

// Write stores a byte at the given address. Writes to a loaded PRG ROM are
// accepted and dropped like on a board without a mapper.
func (i *Interconnect) Write(address uint16, value uint8) error {
	switch {
	case address < 0x2000:
		i.ram.write(address, value)
		return nil
	case address < 0x4000:
		i.ppu.write(address-0x2000, value)
		return nil
	case address < 0x4020:
		i.apu.write(address-0x4000, value)
		return nil
	case address >= 0x6000 && address < 0x8000:
		i.cart.prgRAM[address-0x6000] = value
		return nil
	case address >= uint16(nes.CodeBaseAddress) && i.cart.loaded():
		return nil
	}
	return &AddressError{Access: AccessWrite, Address: address}
}

// ReadWord returns the little endian word at address and address+1.
func (i *Interconnect) ReadWord(address uint16) (uint16, error) {
	return readWord(i, address)
}

// LoadProgram stages a raw program image at ProgramLoadAddress. The image
// is placed in the upper PRG bank, when it does not reach the vector table
// the reset vector is pointed at the load address.
func (i *Interconnect) LoadProgram(data []byte) error {
	base := uint16(nes.CodeBaseAddress)
	offset := int(ProgramLoadAddress - base)
	if len(data) == 0 {
		return errEmptyProgram
	}
	if offset+len(data) > prgMaxSize {
		return fmt.Errorf("program of %d bytes exceeds the %d bytes available at $%04X",
			len(data), prgMaxSize-offset, ProgramLoadAddress)
	}

	prg := make([]byte, prgMaxSize)
	copy(prg[offset:], data)
	reset := int(cpu6502.ResetAddress - base)
	if offset+len(data) <= reset {
		prg[reset] = uint8(ProgramLoadAddress & 0xff)
		prg[reset+1] = uint8(ProgramLoadAddress >> 8)
	}
	return i.cart.setPRG(prg)
}

// LoadPRG installs the program ROM of a cartridge image.
func (i *Interconnect) LoadPRG(prg []byte) error {
	if err := i.cart.setPRG(prg); err != nil {
		return fmt.Errorf("loading PRG ROM: %w", err)
	}
	return nil
}

// PowerOn clears the volatile memory and device registers. Program storage
// survives power cycles.
func (i *Interconnect) PowerOn() {
	i.ram.clear()
	i.ppu.clear()
	i.apu.clear()
}

// Reset resets the device registers, RAM keeps its contents.
func (i *Interconnect) Reset() {
	i.ppu.clear()
	i.apu.clear()
}
