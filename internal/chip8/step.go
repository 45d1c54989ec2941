package chip8

import "math"

// instruction is a fetched 16 bit opcode with accessors for its operand fields.
type instruction uint16

func (i instruction) x() int      { return int(i>>8) & 0xF }
func (i instruction) y() int      { return int(i>>4) & 0xF }
func (i instruction) n() int      { return int(i) & 0xF }
func (i instruction) nn() byte    { return byte(i) }
func (i instruction) nnn() uint16 { return uint16(i) & 0x0FFF }

// executor executes one instruction of an opcode family.
type executor func(c *Interpreter, ins instruction) error

// families maps the high nibble of an opcode to the executor of its family.
var families = [16]executor{
	0x0: (*Interpreter).execSystem,
	0x1: (*Interpreter).execJump,
	0x2: (*Interpreter).execCall,
	0x3: (*Interpreter).execSkipEqualByte,
	0x4: (*Interpreter).execSkipNotEqualByte,
	0x5: (*Interpreter).execSkipEqualRegister,
	0x6: (*Interpreter).execLoadByte,
	0x7: (*Interpreter).execAddByte,
	0x8: (*Interpreter).execArithmetic,
	0x9: (*Interpreter).execSkipNotEqualRegister,
	0xA: (*Interpreter).execLoadIndex,
	0xB: (*Interpreter).execJumpOffset,
	0xC: (*Interpreter).execRandom,
	0xD: (*Interpreter).execDraw,
	0xE: (*Interpreter).execKeySkip,
	0xF: (*Interpreter).execMisc,
}

// Step fetches, decodes and executes a single instruction.
// A returned error is a fault that halted the interpreter.
func (c *Interpreter) Step() error {
	if c.fault != nil {
		return c.fault
	}

	if int(c.PC) > MemorySize-opcodeSize {
		c.Opcode = 0
		return c.halt(&MemoryError{
			PC:      c.PC,
			Address: int(c.PC),
		})
	}

	c.Opcode = uint16(c.Memory[c.PC])<<8 | uint16(c.Memory[c.PC+1])
	ins := instruction(c.Opcode)

	if err := families[c.Opcode>>12](c, ins); err != nil {
		return c.halt(err)
	}
	return nil
}

func (c *Interpreter) halt(err error) error {
	c.fault = err
	return err
}

// next advances PC to the following instruction.
func (c *Interpreter) next() {
	c.PC += opcodeSize
}

// skipIf advances PC to the following instruction and skips it
// if the condition holds.
func (c *Interpreter) skipIf(condition bool) {
	if condition {
		c.PC += opcodeSize
	}
	c.PC += opcodeSize
}

func (c *Interpreter) decodeError() error {
	return &DecodeError{
		PC:     c.PC,
		Opcode: c.Opcode,
	}
}

// checkRange returns a MemoryError if the count bytes starting at
// address are not all inside of memory.
func (c *Interpreter) checkRange(address, count int) error {
	if address+count <= MemorySize {
		return nil
	}
	first := address
	if first < MemorySize {
		first = MemorySize
	}
	return &MemoryError{
		PC:      c.PC,
		Opcode:  c.Opcode,
		Address: first,
	}
}

// 00E0 cls, 00EE ret
func (c *Interpreter) execSystem(ins instruction) error {
	switch ins.nnn() {
	case 0x0E0:
		clear(c.Display[:])
		c.DrawFlag = true
		c.next()
		return nil

	case 0x0EE:
		if c.SP == 0 {
			return &StackError{PC: c.PC, Opcode: c.Opcode}
		}
		c.SP--
		c.PC = c.Stack[c.SP]
		c.next()
		return nil

	default:
		return c.decodeError()
	}
}

// 1nnn jp addr
func (c *Interpreter) execJump(ins instruction) error {
	c.PC = ins.nnn()
	return nil
}

// 2nnn call addr
func (c *Interpreter) execCall(ins instruction) error {
	if int(c.SP) >= StackSize {
		return &StackError{PC: c.PC, Opcode: c.Opcode, Overflow: true}
	}
	c.Stack[c.SP] = c.PC
	c.SP++
	c.PC = ins.nnn()
	return nil
}

// 3xnn se Vx, byte
func (c *Interpreter) execSkipEqualByte(ins instruction) error {
	c.skipIf(c.V[ins.x()] == ins.nn())
	return nil
}

// 4xnn sne Vx, byte
func (c *Interpreter) execSkipNotEqualByte(ins instruction) error {
	c.skipIf(c.V[ins.x()] != ins.nn())
	return nil
}

// 5xy0 se Vx, Vy
func (c *Interpreter) execSkipEqualRegister(ins instruction) error {
	if ins.n() != 0 {
		return c.decodeError()
	}
	c.skipIf(c.V[ins.x()] == c.V[ins.y()])
	return nil
}

// 6xnn ld Vx, byte
func (c *Interpreter) execLoadByte(ins instruction) error {
	c.V[ins.x()] = ins.nn()
	c.next()
	return nil
}

// 7xnn add Vx, byte, wrapping without touching VF
func (c *Interpreter) execAddByte(ins instruction) error {
	c.V[ins.x()] += ins.nn()
	c.next()
	return nil
}

// 8xyN register to register operations. VF is written before Vx, for x equal
// to F the result replaces the flag.
func (c *Interpreter) execArithmetic(ins instruction) error {
	x, y := ins.x(), ins.y()
	vx, vy := c.V[x], c.V[y]

	switch ins.n() {
	case 0x0: // ld Vx, Vy
		c.V[x] = vy
	case 0x1: // or Vx, Vy
		c.V[x] = vx | vy
	case 0x2: // and Vx, Vy
		c.V[x] = vx & vy
	case 0x3: // xor Vx, Vy
		c.V[x] = vx ^ vy
	case 0x4: // add Vx, Vy
		sum := uint16(vx) + uint16(vy)
		c.V[flagRegister] = boolToByte(sum > 0xFF)
		c.V[x] = byte(sum)
	case 0x5: // sub Vx, Vy
		c.V[flagRegister] = boolToByte(vx >= vy)
		c.V[x] = vx - vy
	case 0x6: // shr Vx
		c.V[flagRegister] = vx & 1
		c.V[x] = vx >> 1
	case 0x7: // subn Vx, Vy
		c.V[flagRegister] = boolToByte(vy >= vx)
		c.V[x] = vy - vx
	case 0xE: // shl Vx
		c.V[flagRegister] = vx >> 7
		c.V[x] = vx << 1
	default:
		return c.decodeError()
	}

	c.next()
	return nil
}

// 9xy0 sne Vx, Vy
func (c *Interpreter) execSkipNotEqualRegister(ins instruction) error {
	if ins.n() != 0 {
		return c.decodeError()
	}
	c.skipIf(c.V[ins.x()] != c.V[ins.y()])
	return nil
}

// Annn ld I, addr
func (c *Interpreter) execLoadIndex(ins instruction) error {
	c.I = ins.nnn()
	c.next()
	return nil
}

// Bnnn jp V0, addr
func (c *Interpreter) execJumpOffset(ins instruction) error {
	c.PC = ins.nnn() + uint16(c.V[0])
	return nil
}

// Cxnn rnd Vx, byte
func (c *Interpreter) execRandom(ins instruction) error {
	c.V[ins.x()] = c.random() & ins.nn()
	c.next()
	return nil
}

// Ex9E skp Vx, ExA1 sknp Vx
func (c *Interpreter) execKeySkip(ins instruction) error {
	key := c.V[ins.x()]

	switch ins.nn() {
	case 0x9E:
		c.skipIf(c.keyPressed(key))
	case 0xA1:
		c.skipIf(!c.keyPressed(key))
	default:
		return c.decodeError()
	}
	return nil
}

// keyPressed returns the state of a keypad key. Register values beyond the
// keypad address no key and read as not pressed.
func (c *Interpreter) keyPressed(key byte) bool {
	if int(key) >= KeyCount {
		return false
	}
	return c.Keys[key]
}

// FxNN timer, keypad and memory transfer operations.
func (c *Interpreter) execMisc(ins instruction) error {
	x := ins.x()

	switch ins.nn() {
	case 0x07: // ld Vx, DT
		c.V[x] = c.DelayTimer

	case 0x0A: // ld Vx, K
		if !c.waitKey(x) {
			return nil
		}

	case 0x15: // ld DT, Vx
		c.DelayTimer = c.V[x]

	case 0x18: // ld ST, Vx
		c.SoundTimer = c.V[x]

	case 0x1E: // add I, Vx
		sum := int(c.I) + int(c.V[x])
		if sum > math.MaxUint16 {
			return &MemoryError{
				PC:      c.PC,
				Opcode:  c.Opcode,
				Address: sum,
			}
		}
		c.I = uint16(sum)
		c.V[flagRegister] = boolToByte(sum > MaxAddress)

	case 0x29: // ld F, Vx
		c.I = uint16(c.V[x]) * glyphSize

	case 0x33: // ld B, Vx
		if err := c.checkRange(int(c.I), 3); err != nil {
			return err
		}
		value := c.V[x]
		c.Memory[c.I] = value / 100
		c.Memory[c.I+1] = value / 10 % 10
		c.Memory[c.I+2] = value % 10

	case 0x55: // ld [I], Vx
		if err := c.checkRange(int(c.I), x+1); err != nil {
			return err
		}
		copy(c.Memory[c.I:], c.V[:x+1])

	case 0x65: // ld Vx, [I]
		if err := c.checkRange(int(c.I), x+1); err != nil {
			return err
		}
		copy(c.V[:x+1], c.Memory[c.I:])

	default:
		return c.decodeError()
	}

	c.next()
	return nil
}

// waitKey stores the index of a pressed key in Vx and returns whether a key
// was pressed. The highest pressed key index wins.
func (c *Interpreter) waitKey(x int) bool {
	pressed := false
	for key, down := range c.Keys {
		if down {
			c.V[x] = byte(key)
			pressed = true
		}
	}
	return pressed
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
