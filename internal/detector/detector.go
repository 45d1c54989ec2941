// Package detector handles system architecture detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// Detector handles system architecture detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new system detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect returns the system selected with -s. Without a selection the ROM
// file extension decides, anything but an NES image is run as CHIP-8.
func (d *Detector) Detect(opts options.Program) arch.System {
	system, _ := arch.SystemFromString(opts.System)
	if system == "" {
		system = d.detectFromFile(opts.Input)
		d.logger.Debug("Auto-detected system",
			log.Stringer("system", system),
			log.String("file", opts.Input))
	}
	return system
}

// detectFromFile determines the system type based on file extension.
func (d *Detector) detectFromFile(filename string) arch.System {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".nes":
		return arch.NES
	default:
		// CHIP-8 ROMs are raw program bytes without a header and are
		// distributed with .ch8, .c8, .rom or no extension at all.
		return arch.CHIP8System
	}
}

// Supported returns whether the system can be emulated.
func Supported(system arch.System) bool {
	return system == arch.CHIP8System
}
