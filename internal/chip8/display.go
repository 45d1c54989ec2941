package chip8

// spriteWidth is the width of a sprite row in pixels.
const spriteWidth = 8

// Framebuffer is the monochrome display, one byte valued 0 or 1 per pixel
// stored row by row.
type Framebuffer [DisplaySize]byte

// Pixel returns whether the pixel at the given coordinates is set.
// Coordinates wrap around the display edges.
func (f *Framebuffer) Pixel(x, y int) bool {
	index := ((y%Height+Height)%Height)*Width + (x%Width+Width)%Width
	return f[index] != 0
}

// Dxyn drw Vx, Vy, nibble
//
// Draws n rows of 8 pixels read from memory at I. Every set sprite bit toggles
// the display pixel at (Vx+column, Vy+row). Positions are translated to a
// display offset that wraps around the end of the display buffer instead of
// wrapping each axis. VF is set to 1 if any set pixel was erased.
func (c *Interpreter) execDraw(ins instruction) error {
	rows := ins.n()
	if err := c.checkRange(int(c.I), rows); err != nil {
		return err
	}

	originX := int(c.V[ins.x()])
	originY := int(c.V[ins.y()])

	c.V[flagRegister] = 0
	for row := range rows {
		line := c.Memory[int(c.I)+row]

		for column := range spriteWidth {
			if line&(0x80>>column) == 0 {
				continue
			}

			index := (originX + column + (originY+row)*Width) % DisplaySize
			if c.Display[index] == 1 {
				c.V[flagRegister] = 1
			}
			c.Display[index] ^= 1
		}
	}

	c.DrawFlag = true
	c.next()
	return nil
}
