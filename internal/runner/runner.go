// Package runner drives a CHIP-8 interpreter in fixed frames.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// ErrBreakpoint is returned by Run when execution reaches a breakpoint.
var ErrBreakpoint = errors.New("breakpoint reached")

// Option configures a Runner.
type Option func(*Runner)

// WithFrameHandler sets a function that is called at the end of every frame
// in which the display changed. It receives a copy of the display.
func WithFrameHandler(handler func(display *chip8.Framebuffer)) Option {
	return func(r *Runner) {
		r.onFrame = handler
	}
}

// WithBeeper sets a function that is called when the sound timer expires.
func WithBeeper(beep func()) Option {
	return func(r *Runner) {
		r.onBeep = beep
	}
}

// Runner executes an interpreter at a fixed instruction rate. Every frame
// executes a batch of instructions followed by one timer tick.
type Runner struct {
	logger      *log.Logger
	opts        options.Emulation
	fast        bool
	trace       bool
	breakpoints set.Set[uint16]

	onFrame func(display *chip8.Framebuffer)
	onBeep  func()

	mu     sync.Mutex // guards the fields below
	vm     *chip8.Interpreter
	frames int
	// address of the breakpoint that stopped execution, it is passed over
	// once when execution resumes
	stoppedAt uint16
	stopped   bool
}

// New returns a runner for the interpreter.
func New(logger *log.Logger, vm *chip8.Interpreter, opts options.Program, runnerOptions ...Option) *Runner {
	r := &Runner{
		logger:      logger,
		opts:        opts.Emulation,
		fast:        opts.Fast,
		trace:       opts.Trace,
		breakpoints: set.New[uint16](),
		vm:          vm,
	}
	for _, address := range opts.Breakpoints {
		r.breakpoints.Add(address)
	}
	for _, option := range runnerOptions {
		option(r)
	}
	return r
}

// Run executes frames until the configured frame count is reached, the
// context is cancelled, a breakpoint is reached or the interpreter faults.
// Unless running in fast mode, frames are throttled to the frame rate.
func (r *Runner) Run(ctx context.Context) error {
	perFrame := r.opts.InstructionsPerFrame()

	var tick <-chan time.Time
	if !r.fast && r.opts.FramesPerSecond > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(r.opts.FramesPerSecond))
		defer ticker.Stop()
		tick = ticker.C
	}

	for frame := 0; r.opts.Frames == 0 || frame < r.opts.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.RunFrame(perFrame); err != nil {
			return err
		}

		if tick == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
	}
	return nil
}

// RunFrame executes up to count instructions and ticks the timers once.
// The frame and beep handlers are called after the interpreter is released,
// they may call SetKey, Snapshot and Frames.
func (r *Runner) RunFrame(count int) error {
	frame, err := r.runFrame(count)
	if err != nil {
		return err
	}

	if frame.beep && r.onBeep != nil {
		r.onBeep()
	}
	if frame.drawn && r.onFrame != nil {
		r.onFrame(&frame.display)
	}
	return nil
}

// frameResult is the outcome of one frame, copied while holding the lock.
type frameResult struct {
	beep    bool
	drawn   bool
	display chip8.Framebuffer
}

func (r *Runner) runFrame(count int) (frameResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for range count {
		if err := r.step(); err != nil {
			return frameResult{}, err
		}
	}

	r.frames++
	frame := frameResult{
		beep:   r.vm.TickTimers(),
		drawn:  r.vm.DrawFlag,
	}
	if frame.drawn {
		frame.display = r.vm.Display
		r.vm.DrawFlag = false
	}
	return frame, nil
}

func (r *Runner) step() error {
	pc := r.vm.PC
	if r.breakpoints.Contains(pc) && (!r.stopped || r.stoppedAt != pc) {
		r.stopped = true
		r.stoppedAt = pc
		r.logger.Info("Breakpoint reached", log.Hex("address", pc))
		return fmt.Errorf("%w at $%03X", ErrBreakpoint, pc)
	}

	if r.trace {
		r.traceInstruction(pc)
	}

	if err := r.vm.Step(); err != nil {
		r.logger.Error("Interpreter halted",
			log.Hex("address", r.vm.PC),
			log.Hex("opcode", r.vm.Opcode),
			log.Err(err))
		return fmt.Errorf("executing instruction: %w", err)
	}

	if r.vm.PC != pc {
		r.stopped = false
	}
	return nil
}

func (r *Runner) traceInstruction(pc uint16) {
	if int(pc)+1 >= chip8.MemorySize {
		return
	}
	opcode := uint16(r.vm.Memory[pc])<<8 | uint16(r.vm.Memory[pc+1])
	r.logger.Debug("Executing",
		log.Hex("address", pc),
		log.Hex("opcode", opcode),
		log.String("instruction", disasm.Format(opcode)))
}

// SetKey updates the pressed state of a keypad key. Keys outside of the
// keypad are ignored.
func (r *Runner) SetKey(key int, pressed bool) {
	if key < 0 || key >= chip8.KeyCount {
		return
	}
	r.mu.Lock()
	r.vm.Keys[key] = pressed
	r.mu.Unlock()
}

// Snapshot returns a copy of the current display.
func (r *Runner) Snapshot() chip8.Framebuffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vm.Display
}

// Frames returns the number of completed frames.
func (r *Runner) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}
