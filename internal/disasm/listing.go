package disasm

import (
	"fmt"
	"io"
)

// Listing writes a linear disassembly of a program loaded at origin.
// Every aligned word is decoded as an instruction, a trailing odd byte is
// written as data.
func Listing(w io.Writer, program []byte, origin uint16) error {
	if _, err := fmt.Fprintf(w, "; CHIP-8 program listing\n"); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}
	if _, err := fmt.Fprintf(w, "; Program size: %d bytes\n\n", len(program)); err != nil {
		return fmt.Errorf("writing size comment: %w", err)
	}
	if _, err := fmt.Fprintf(w, ".org $%03X\n\n", origin); err != nil {
		return fmt.Errorf("writing org directive: %w", err)
	}

	for offset := 0; offset < len(program); offset += 2 {
		address := int(origin) + offset

		if offset+1 == len(program) {
			line := fmt.Sprintf("    .byte $%02X", program[offset])
			if err := writeLine(w, line, address, program[offset:]); err != nil {
				return err
			}
			break
		}

		opcode := uint16(program[offset])<<8 | uint16(program[offset+1])
		line := "    " + Format(opcode)
		if err := writeLine(w, line, address, program[offset:offset+2]); err != nil {
			return err
		}
	}

	return nil
}

// writeLine writes a listing line with the address and raw bytes as comment.
func writeLine(w io.Writer, line string, address int, data []byte) error {
	comment := fmt.Sprintf("$%03X:", address)
	for _, b := range data {
		comment += fmt.Sprintf(" %02X", b)
	}

	if _, err := fmt.Fprintf(w, "%-32s ; %s\n", line, comment); err != nil {
		return fmt.Errorf("writing line at $%03X: %w", address, err)
	}
	return nil
}
