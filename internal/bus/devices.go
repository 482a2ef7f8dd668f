package bus

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/system/nes"
)

const (
	ramSize      = 0x0800
	ppuRegisters = 8
	apuRegisters = 0x20
	prgRAMSize   = 0x2000
	prgBankSize  = 0x4000
	prgMaxSize   = 2 * prgBankSize
)

// ram is the 2 KiB internal work memory, mirrored across $0000-$1FFF.
type ram struct {
	data [ramSize]uint8
}

func (r *ram) read(address uint16) uint8 {
	return r.data[address&(ramSize-1)]
}

func (r *ram) write(address uint16, value uint8) {
	r.data[address&(ramSize-1)] = value
}

func (r *ram) clear() {
	r.data = [ramSize]uint8{}
}

// registerFile is a plain register window. Picture and audio processing are
// not emulated, the registers only latch the last written value.
type registerFile struct {
	data []uint8
}

func newRegisterFile(size int) registerFile {
	return registerFile{data: make([]uint8, size)}
}

func (r *registerFile) read(index uint16) uint8 {
	return r.data[int(index)%len(r.data)]
}

func (r *registerFile) write(index uint16, value uint8) {
	r.data[int(index)%len(r.data)] = value
}

func (r *registerFile) clear() {
	clear(r.data)
}

// cartridge holds program ROM and battery RAM.
type cartridge struct {
	prg    []uint8
	prgRAM [prgRAMSize]uint8
}

// setPRG installs a 16 or 32 KiB program ROM. A single bank is mirrored
// into both halves of the $8000-$FFFF window.
func (c *cartridge) setPRG(prg []byte) error {
	switch len(prg) {
	case prgBankSize, prgMaxSize:
	default:
		return fmt.Errorf("unsupported PRG size %d, expected %d or %d bytes", len(prg), prgBankSize, prgMaxSize)
	}
	c.prg = make([]uint8, len(prg))
	copy(c.prg, prg)
	return nil
}

func (c *cartridge) loaded() bool {
	return len(c.prg) > 0
}

func (c *cartridge) readPRG(address uint16) uint8 {
	offset := int(address - uint16(nes.CodeBaseAddress))
	return c.prg[offset%len(c.prg)]
}
