// Package chip8 implements the CHIP-8 interpreter core.
//
// # Machine Overview
//
// CHIP-8 is an interpreted programming language from the 1970s designed for simple
// games on early microcomputers. The interpreter models the virtual machine the
// language runs on:
//   - 4KB of memory, font glyphs at 0x000-0x04F, programs loaded at ProgramStart
//   - 16 general-purpose 8-bit registers V0-VF, VF doubling as flag register
//   - a 16-bit index register I and program counter PC
//   - a 16 level call stack
//   - delay and sound timers decremented once per frame
//   - a 64x32 monochrome framebuffer and a 16 key hexadecimal keypad
//
// # Execution
//
// The interpreter does not schedule itself. A driver calls Step a fixed number of
// times per display frame and TickTimers once per frame:
//
//	vm := chip8.New()
//	if err := vm.LoadProgram(rom); err != nil {
//		return fmt.Errorf("loading program: %w", err)
//	}
//	for {
//		for range instructionsPerFrame {
//			if err := vm.Step(); err != nil {
//				return fmt.Errorf("executing instruction: %w", err)
//			}
//		}
//		if vm.TickTimers() {
//			beep()
//		}
//	}
//
// # Faults
//
// Unknown opcodes, call stack overflow or underflow and memory accesses outside
// of the 4KB address space halt the interpreter. Step returns the fault, leaves
// PC pointing at the faulting instruction and keeps returning the fault until
// Reset is called. All faults match ErrFault using errors.Is.
//
// An Interpreter is not safe for concurrent use. Callers that share one between
// goroutines have to guard the whole instance with a single lock.
package chip8
