package cpu

// NMI signals a non maskable interrupt. The request is latched and serviced
// before the next instruction.
func (c *CPU) NMI() {
	c.nmiPending = true
}

// IRQ sets the level of the maskable interrupt line. While it is active an
// interrupt is serviced before every instruction that starts with the
// interrupt disable flag cleared.
func (c *CPU) IRQ(active bool) {
	c.irqLine = active
}

// pollInterrupts starts an interrupt sequence between instructions. A
// pending NMI takes priority over the IRQ line.
func (c *CPU) pollInterrupts() {
	switch {
	case c.nmiPending:
		c.nmiPending = false
		c.interrupt(NMIVector)
	case c.irqLine && !c.P.Interrupt():
		c.interrupt(IRQVector)
	}
}

// interrupt queues the 7 cycle hardware interrupt sequence. Unlike BRK the
// stacked status has the break bit cleared.
func (c *CPU) interrupt(vector uint16) {
	c.state = stateInterrupting
	c.vector = vector
	c.returnAddress = c.PC

	c.queue.push(opIdle, 1)
	c.queue.push(opIdle, 1)
	c.queue.push(opPushReturnHigh, 1)
	c.queue.push(opPushReturnLow, 1)
	c.queue.push(opPushStatusInterrupt, 1)
	c.queue.push(opLoadVector, 1)
	c.queue.push(opIdle, 1)
}
