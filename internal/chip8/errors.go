package chip8

import (
	"errors"
	"fmt"
)

// ErrFault is matched by all errors that halt the interpreter.
var ErrFault = errors.New("interpreter fault")

// CapacityError is returned when a program does not fit into program memory.
type CapacityError struct {
	Size     int // size of the rejected program in bytes, reads stop one byte past Capacity
	Capacity int // available program memory in bytes
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("program size %d exceeds available memory of %d bytes", e.Size, e.Capacity)
}

// DecodeError is returned when an opcode is not part of the instruction set.
type DecodeError struct {
	PC     uint16
	Opcode uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unknown opcode $%04X at $%03X", e.Opcode, e.PC)
}

// Is reports whether target is ErrFault.
func (e *DecodeError) Is(target error) bool {
	return target == ErrFault
}

// StackError is returned when a call exceeds the stack depth or a return
// is executed without an active call.
type StackError struct {
	PC       uint16
	Opcode   uint16
	Overflow bool // true for a call on a full stack, false for a return on an empty one
}

func (e *StackError) Error() string {
	if e.Overflow {
		return fmt.Sprintf("stack overflow by opcode $%04X at $%03X", e.Opcode, e.PC)
	}
	return fmt.Sprintf("stack underflow by opcode $%04X at $%03X", e.Opcode, e.PC)
}

// Is reports whether target is ErrFault.
func (e *StackError) Is(target error) bool {
	return target == ErrFault
}

// MemoryError is returned when an instruction accesses an address outside
// of the interpreter memory or the index register would exceed 16 bits.
// If PC itself is out of range no opcode was fetched, Address equals PC and
// Opcode is 0.
type MemoryError struct {
	PC      uint16
	Opcode  uint16
	Address int // first address that is out of range
}

func (e *MemoryError) Error() string {
	if e.Address == int(e.PC) {
		return fmt.Sprintf("instruction fetch at $%04X out of range", e.Address)
	}
	return fmt.Sprintf("memory access at $%04X out of range by opcode $%04X at $%03X", e.Address, e.Opcode, e.PC)
}

// Is reports whether target is ErrFault.
func (e *MemoryError) Is(target error) bool {
	return target == ErrFault
}
