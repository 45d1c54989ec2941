// Package pipeline orchestrates the emulation workflow stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/app"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/screen"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete workflow from loading a ROM to running
// or disassembling it.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new emulation pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Result summarizes a finished emulation.
type Result struct {
	Size        int // ROM size in bytes
	Frames      int // completed frames
	DrawnFrames int // frames in which the display changed
	Beeps       int // sound timer expirations
}

// Execute loads the ROM named in the options and either writes a listing of
// it to the writer or runs it. A display snapshot that is written to standard
// output goes to the writer as well.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, writer io.Writer) (*Result, error) {
	// Detect system architecture
	system := p.detector.Detect(opts)
	if !detector.Supported(system) {
		return nil, fmt.Errorf("unsupported system '%s'", system)
	}

	reader, err := p.loader.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	rom, err := chip8.ReadProgram(reader)
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}

	app.PrintInfo(p.logger, opts, system, len(rom))

	if opts.Disasm {
		if err := disasm.Listing(writer, rom, chip8.ProgramStart); err != nil {
			return nil, fmt.Errorf("writing listing: %w", err)
		}
		return &Result{Size: len(rom)}, nil
	}

	return p.ExecuteWithROM(ctx, rom, opts, writer)
}

// ExecuteWithROM runs a ROM that is already in memory.
// This is useful for testing and programmatic usage.
func (p *Pipeline) ExecuteWithROM(ctx context.Context, rom []byte, opts options.Program, writer io.Writer) (*Result, error) {
	vm := chip8.New(app.InterpreterOptions(opts)...)
	if err := vm.LoadProgram(rom); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	result := &Result{Size: len(rom)}
	run := runner.New(p.logger, vm, opts,
		runner.WithFrameHandler(func(*chip8.Framebuffer) {
			result.DrawnFrames++
		}),
		runner.WithBeeper(func() {
			result.Beeps++
			p.logger.Info("Beep", log.Int("count", result.Beeps))
		}),
	)
	runErr := run.Run(ctx)
	result.Frames = run.Frames()

	switch {
	case runErr == nil:
		p.logger.Debug("Emulation finished",
			log.Int("frames", result.Frames),
			log.Int("drawn_frames", result.DrawnFrames),
			log.Int("beeps", result.Beeps))
	case errors.Is(runErr, runner.ErrBreakpoint), errors.Is(runErr, chip8.ErrFault):
		p.dumpState(vm)
	}

	if opts.Dump != "" {
		if err := p.writeSnapshot(opts.Dump, run.Snapshot(), writer); err != nil {
			return nil, errors.Join(runErr, err)
		}
	}

	if runErr != nil {
		return nil, fmt.Errorf("running program: %w", runErr)
	}
	return result, nil
}

// dumpState logs the machine state for inspection after execution stopped.
func (p *Pipeline) dumpState(vm *chip8.Interpreter) {
	p.logger.Info("Interpreter state",
		log.Hex("pc", vm.PC),
		log.Hex("opcode", vm.Opcode),
		log.Hex("i", vm.I),
		log.Uint8("sp", vm.SP),
		log.Uint8("dt", vm.DelayTimer),
		log.Uint8("st", vm.SoundTimer),
		log.String("v", fmt.Sprintf("% X", vm.V[:])))
}

// writeSnapshot writes the display to the named file, - selects the writer.
func (p *Pipeline) writeSnapshot(name string, fb chip8.Framebuffer, writer io.Writer) error {
	if name == "-" {
		if err := screen.Write(writer, &fb); err != nil {
			return fmt.Errorf("writing display snapshot: %w", err)
		}
		return nil
	}

	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}

	if err := screen.Write(file, &fb); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing display snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing snapshot file: %w", err)
	}

	p.logger.Debug("Wrote display snapshot", log.String("file", name))
	return nil
}
