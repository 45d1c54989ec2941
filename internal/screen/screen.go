// Package screen writes text snapshots of the CHIP-8 display.
package screen

import (
	"bufio"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// Pixel characters of a snapshot.
const (
	On  = '#'
	Off = '.'
)

// Framebuffer provides the pixels of a display.
type Framebuffer interface {
	Pixel(x, y int) bool
}

// Write writes the framebuffer as chip8.Height lines of chip8.Width characters.
func Write(w io.Writer, fb Framebuffer) error {
	buf := bufio.NewWriter(w)
	line := make([]byte, chip8.Width+1)
	line[chip8.Width] = '\n'

	for y := range chip8.Height {
		for x := range chip8.Width {
			if fb.Pixel(x, y) {
				line[x] = On
			} else {
				line[x] = Off
			}
		}
		if _, err := buf.Write(line); err != nil {
			return fmt.Errorf("writing display line %d: %w", y, err)
		}
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flushing display snapshot: %w", err)
	}
	return nil
}
