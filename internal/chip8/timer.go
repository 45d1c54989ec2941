package chip8

// TickTimers decrements the delay and sound timers towards zero. It is called
// once per display frame and returns true when the sound timer expired during
// this tick, signaling that a beep has to be played.
func (c *Interpreter) TickTimers() bool {
	if c.DelayTimer > 0 {
		c.DelayTimer--
	}

	if c.SoundTimer == 0 {
		return false
	}
	c.SoundTimer--
	return c.SoundTimer == 0
}
