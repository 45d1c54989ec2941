// Package app provides the main application helpers for the emulator.
package app

import (
	"math/rand/v2"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	archsys "github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// PrintInfo prints the information about the input file and the emulation settings.
func PrintInfo(logger *log.Logger, opts options.Program, system archsys.System, size int) {
	if opts.Quiet {
		return
	}

	if opts.Disasm {
		logger.Info("Disassembling Chip-8 ROM",
			log.String("file", opts.Input),
			log.Int("size", size),
		)
		return
	}

	logger.Info("Running Chip-8 ROM",
		log.String("file", opts.Input),
		log.Stringer("system", system),
		log.Int("size", size),
		log.Int("instructions_per_frame", opts.InstructionsPerFrame()),
		log.Int("frames_per_second", opts.FramesPerSecond),
	)
	if size == 0 {
		logger.Warn("ROM is empty, the interpreter will fault on the first instruction")
	}
}

// InterpreterOptions returns the interpreter options for the program options.
// A seed of 0 keeps the randomly seeded default source of the interpreter.
func InterpreterOptions(opts options.Program) []chip8.Option {
	if opts.Seed == 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	return []chip8.Option{
		chip8.WithRandom(func() byte {
			return byte(rng.Uint32())
		}),
	}
}
