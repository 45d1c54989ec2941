// Package options contains the program options.
package options

// Default emulation speed, matching the instruction rate most CHIP-8
// programs were written for.
const (
	DefaultInstructionsPerSecond = 600
	DefaultFramesPerSecond       = 60
)

// Parameters contains file path options.
type Parameters struct {
	Input string // ROM file to run
	Dump  string // file to write a framebuffer snapshot to on exit, - for stdout
}

// Flags contains behavior options.
type Flags struct {
	System string // target system, detected from the file extension if empty
	Disasm bool   // print a listing of the ROM instead of running it
	Debug  bool
	Quiet  bool
	Trace  bool // log every executed instruction
	Fast   bool // do not throttle frames to the frame rate
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	Emulation
}

// Emulation defines options to control the frame loop.
type Emulation struct {
	InstructionsPerSecond int
	FramesPerSecond       int
	Frames                int      // number of frames to run, 0 runs until cancelled or halted
	Breakpoints           []uint16 // addresses to stop at before executing them
	Seed                  uint64   // seed of the random number source, 0 for a random seed
}

// NewEmulation returns a new options instance with default options.
func NewEmulation() Emulation {
	return Emulation{
		InstructionsPerSecond: DefaultInstructionsPerSecond,
		FramesPerSecond:       DefaultFramesPerSecond,
	}
}

// InstructionsPerFrame returns the number of instructions to execute per
// frame, at least 1.
func (e Emulation) InstructionsPerFrame() int {
	if e.FramesPerSecond <= 0 {
		return max(e.InstructionsPerSecond, 1)
	}
	return max(e.InstructionsPerSecond/e.FramesPerSecond, 1)
}
