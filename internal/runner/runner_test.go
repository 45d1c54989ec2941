package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestRunner(t *testing.T, opts options.Program, program []byte, runnerOptions ...Option) (*Runner, *chip8.Interpreter) {
	t.Helper()

	vm := chip8.New(chip8.WithRandom(func() byte { return 0 }))
	assert.NoError(t, vm.LoadProgram(program))

	opts.Fast = true
	return New(log.NewTestLogger(t), vm, opts, runnerOptions...), vm
}

func TestRun_Frames(t *testing.T) {
	opts := options.Program{Emulation: options.NewEmulation()}
	opts.Frames = 3

	// add V0, 1 followed by jp $200
	r, vm := newTestRunner(t, opts, []byte{0x70, 0x01, 0x12, 0x00})

	assert.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 3, r.Frames())
	// 10 instructions per frame, half of them add
	assert.Equal(t, byte(15), vm.V[0])
}

func TestRun_Fault(t *testing.T) {
	opts := options.Program{Emulation: options.NewEmulation()}
	r, vm := newTestRunner(t, opts, []byte{0xFF, 0xFF})

	err := r.Run(context.Background())
	assert.ErrorContains(t, err, "executing instruction")
	assert.True(t, errors.Is(err, chip8.ErrFault))

	var decodeErr *chip8.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, uint16(0x200), decodeErr.PC)
	assert.True(t, vm.Halted())
	assert.Equal(t, 0, r.Frames())
}

func TestRun_Cancelled(t *testing.T) {
	opts := options.Program{Emulation: options.NewEmulation()}
	r, _ := newTestRunner(t, opts, []byte{0x12, 0x00})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_Throttled(t *testing.T) {
	vm := chip8.New()
	assert.NoError(t, vm.LoadProgram([]byte{0x12, 0x00}))

	opts := options.Program{Emulation: options.NewEmulation()}
	opts.FramesPerSecond = 1000
	opts.Frames = 2
	r := New(log.NewTestLogger(t), vm, opts)

	assert.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 2, r.Frames())
}

func TestRun_Breakpoint(t *testing.T) {
	opts := options.Program{Emulation: options.NewEmulation()}
	opts.Frames = 1
	opts.Breakpoints = []uint16{0x204}

	r, vm := newTestRunner(t, opts, []byte{
		0x60, 0x01, // ld V0, $01
		0x61, 0x02, // ld V1, $02
		0x62, 0x03, // ld V2, $03
		0x12, 0x06, // jp $206
	})

	err := r.Run(context.Background())
	assert.True(t, errors.Is(err, ErrBreakpoint))
	assert.ErrorContains(t, err, "$204")
	assert.Equal(t, uint16(0x204), vm.PC)
	assert.Equal(t, byte(0), vm.V[2])

	// resuming passes over the breakpoint
	assert.NoError(t, r.Run(context.Background()))
	assert.Equal(t, byte(3), vm.V[2])
	assert.Equal(t, uint16(0x206), vm.PC)
}

func TestRunFrame_Hooks(t *testing.T) {
	opts := options.Program{Emulation: options.NewEmulation()}

	var frames, beeps int
	r, vm := newTestRunner(t, opts, []byte{
		0x60, 0x01, // ld V0, $01
		0xF0, 0x18, // ld ST, V0
		0x00, 0xE0, // cls
		0x12, 0x06, // jp $206
	},
		WithFrameHandler(func(display *chip8.Framebuffer) {
			assert.Equal(t, chip8.Framebuffer{}, *display)
			frames++
		}),
		WithBeeper(func() { beeps++ }),
	)

	assert.NoError(t, r.RunFrame(4))
	assert.Equal(t, 1, frames)
	assert.Equal(t, 1, beeps)
	assert.False(t, vm.DrawFlag)
	assert.Equal(t, byte(0), vm.SoundTimer)

	assert.NoError(t, r.RunFrame(4))
	assert.Equal(t, 1, frames)
	assert.Equal(t, 1, beeps)
}

func TestRunFrame_HandlersUseRunner(t *testing.T) {
	opts := options.Program{Emulation: options.NewEmulation()}

	var r *Runner
	var snapshot chip8.Framebuffer
	var frames int
	r, _ = newTestRunner(t, opts, []byte{
		0x60, 0x01, // ld V0, $01
		0xF0, 0x18, // ld ST, V0
		0xF0, 0x29, // ld F, V0
		0xD1, 0x15, // drw V1, V1, 5
		0x12, 0x08, // jp $208
	},
		WithFrameHandler(func(display *chip8.Framebuffer) {
			snapshot = r.Snapshot()
			frames = r.Frames()
			assert.Equal(t, snapshot, *display)
		}),
		WithBeeper(func() {
			r.SetKey(0x5, true)
		}),
	)

	done := make(chan error, 1)
	go func() {
		done <- r.RunFrame(5)
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("RunFrame did not return while handlers used the runner")
	}

	assert.Equal(t, 1, frames)
	// glyph 1 starts with 0x20
	assert.True(t, snapshot.Pixel(2, 0))
	current := r.Snapshot()
	assert.True(t, current.Pixel(2, 0))
}

func TestSetKey(t *testing.T) {
	opts := options.Program{Emulation: options.NewEmulation()}
	r, vm := newTestRunner(t, opts, []byte{
		0xF3, 0x0A, // ld V3, K
		0x12, 0x02, // jp $202
	})

	assert.NoError(t, r.RunFrame(3))
	assert.Equal(t, uint16(0x200), vm.PC)

	r.SetKey(-1, true)
	r.SetKey(chip8.KeyCount, true)
	r.SetKey(0xB, true)
	assert.True(t, vm.Keys[0xB])

	assert.NoError(t, r.RunFrame(1))
	assert.Equal(t, byte(0xB), vm.V[3])
	assert.Equal(t, uint16(0x202), vm.PC)

	r.SetKey(0xB, false)
	assert.False(t, vm.Keys[0xB])
}

func TestSnapshot(t *testing.T) {
	opts := options.Program{Emulation: options.NewEmulation()}
	r, vm := newTestRunner(t, opts, []byte{
		0xF0, 0x29, // ld F, V0
		0xD1, 0x15, // drw V1, V1, 5
	})

	assert.NoError(t, r.RunFrame(2))
	snapshot := r.Snapshot()
	assert.True(t, snapshot.Pixel(0, 0))
	assert.Equal(t, vm.Display, snapshot)

	vm.Display[0] = 0
	assert.True(t, snapshot.Pixel(0, 0))
}
