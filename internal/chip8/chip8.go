package chip8

import (
	"fmt"
	"io"
	"math/rand/v2"
)

// CHIP-8 memory layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x04F: Font glyphs for the hexadecimal digits (80 bytes)
//	0x050-0x1FF: Unused interpreter area
//	0x200-0xFFF: Program space (3584 bytes)
const (
	// MemorySize is the size of the interpreter memory in bytes.
	MemorySize = 4096

	// ProgramStart is the memory address where programs are loaded and
	// where execution begins.
	ProgramStart = 0x200

	// MaxAddress is the highest valid address in the 12 bit address space.
	MaxAddress = 0xFFF

	// MaxProgramSize is the largest program that fits into program space.
	MaxProgramSize = MemorySize - ProgramStart

	// FontSize is the size of the built-in font set in bytes.
	FontSize = 80
)

// Display and input dimensions.
const (
	Width       = 64
	Height      = 32
	DisplaySize = Width * Height

	RegisterCount = 16
	StackSize     = 16
	KeyCount      = 16
)

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// flagRegister is the index of VF.
const flagRegister = 0xF

// Interpreter holds the complete state of one CHIP-8 virtual machine.
// The fields are exported so that drivers can render the display, feed the
// keypad and inspect the machine; they must not be modified during Step.
type Interpreter struct {
	Memory [MemorySize]byte
	V      [RegisterCount]byte // general purpose registers, VF is the flag register
	I      uint16              // index register
	PC     uint16              // program counter
	Opcode uint16              // last fetched opcode

	Stack [StackSize]uint16
	SP    uint8 // number of active stack entries

	DelayTimer byte
	SoundTimer byte

	Display  Framebuffer
	DrawFlag bool // set when Display changed, cleared by the consumer

	Keys [KeyCount]bool // pressed state of the hexadecimal keypad

	random func() byte
	fault  error
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithRandom sets the random byte source used by the RND instruction.
func WithRandom(random func() byte) Option {
	return func(c *Interpreter) {
		c.random = random
	}
}

// New returns a new interpreter in power-on state with the font set loaded.
func New(options ...Option) *Interpreter {
	c := &Interpreter{
		PC:     ProgramStart,
		random: randomByte,
	}
	for _, option := range options {
		option(c)
	}
	c.Initialize()
	return c
}

// Initialize loads the built-in font set into low memory.
func (c *Interpreter) Initialize() {
	copy(c.Memory[:FontSize], fontSet[:])
}

// Reset returns the interpreter to power-on state. Memory including any loaded
// program is cleared, the font set is reloaded and a halted interpreter
// resumes operation.
func (c *Interpreter) Reset() {
	random := c.random
	*c = Interpreter{
		PC:     ProgramStart,
		random: random,
	}
	c.Initialize()
}

// LoadProgram copies the program into memory starting at ProgramStart.
// Memory is not modified if the program exceeds MaxProgramSize.
func (c *Interpreter) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return &CapacityError{
			Size:     len(program),
			Capacity: MaxProgramSize,
		}
	}

	clear(c.Memory[ProgramStart:])
	copy(c.Memory[ProgramStart:], program)
	return nil
}

// LoadFrom reads a program from the reader and loads it into memory.
// Read errors are returned wrapped, a program that is too large results
// in a CapacityError.
func (c *Interpreter) LoadFrom(reader io.Reader) error {
	program, err := ReadProgram(reader)
	if err != nil {
		return err
	}
	return c.LoadProgram(program)
}

// ReadProgram reads a program from the reader without loading it.
// Read errors are returned wrapped, a program that is too large results
// in a CapacityError.
func ReadProgram(reader io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	if len(data) > MaxProgramSize {
		return nil, &CapacityError{
			Size:     len(data),
			Capacity: MaxProgramSize,
		}
	}
	return data, nil
}

// Halted returns whether the interpreter stopped because of a fault.
func (c *Interpreter) Halted() bool {
	return c.fault != nil
}

// Fault returns the fault that halted the interpreter or nil.
func (c *Interpreter) Fault() error {
	return c.fault
}

// Pixel returns whether the pixel at the given display coordinates is set.
func (c *Interpreter) Pixel(x, y int) bool {
	return c.Display.Pixel(x, y)
}

func randomByte() byte {
	return byte(rand.Uint32())
}
