package cli

import (
	"errors"
	"os"
	"slices"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog", "-ips", "900", "-frames", "120", "-fast", "pong.ch8"}

	opts, err := ParseFlags()
	assert.NoError(t, err)
	assert.Equal(t, "pong.ch8", opts.Input)
	assert.Equal(t, 900, opts.InstructionsPerSecond)
	assert.Equal(t, options.DefaultFramesPerSecond, opts.FramesPerSecond)
	assert.Equal(t, 120, opts.Frames)
	assert.True(t, opts.Fast)
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "default flags",
			args: []string{"game.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "game.ch8"},
				Emulation:  options.NewEmulation(),
			},
		},
		{
			name: "output flags",
			args: []string{"-dump", "-", "-disasm", "-q", "game.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "game.ch8", Dump: "-"},
				Flags:      options.Flags{Disasm: true, Quiet: true},
				Emulation:  options.NewEmulation(),
			},
		},
		{
			name: "emulation flags",
			args: []string{"-ips", "1000", "-fps", "50", "-seed", "42", "-trace", "game.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "game.ch8"},
				Flags:      options.Flags{Trace: true},
				Emulation: options.Emulation{
					InstructionsPerSecond: 1000,
					FramesPerSecond:       50,
					Seed:                  42,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs("prog", tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.want.Parameters, got.Parameters)
			assert.Equal(t, tt.want.Flags, got.Flags)
			assert.Equal(t, tt.want.InstructionsPerSecond, got.InstructionsPerSecond)
			assert.Equal(t, tt.want.FramesPerSecond, got.FramesPerSecond)
			assert.Equal(t, tt.want.Frames, got.Frames)
			assert.Equal(t, tt.want.Seed, got.Seed)
		})
	}
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		usage bool
	}{
		{"missing ROM file", []string{"-fast"}, true},
		{"flag after ROM file", []string{"game.ch8", "-fast"}, true},
		{"unknown flag", []string{"-unknown", "game.ch8"}, true},
		{"invalid breakpoint", []string{"-break", "xyz", "game.ch8"}, false},
		{"breakpoint out of range", []string{"-break", "1000", "game.ch8"}, false},
		{"zero frame rate", []string{"-fps", "0", "game.ch8"}, false},
		{"negative instruction rate", []string{"-ips", "-5", "game.ch8"}, false},
		{"negative frame count", []string{"-frames", "-1", "game.ch8"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs("prog", tt.args)
			assert.Error(t, err)

			var usageErr *UsageError
			assert.Equal(t, tt.usage, errors.As(err, &usageErr))
		})
	}
}

func TestParseArgs_FlagAfterROM(t *testing.T) {
	_, err := parseArgs("prog", []string{"-fast", "pong.ch8", "-trace"})
	assert.ErrorContains(t, err, "flag -trace is ignored after the ROM file pong.ch8")
}

func TestParseBreakpoints(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []uint16
	}{
		{"empty", "", nil},
		{"single", "2a4", []uint16{0x2A4}},
		{"prefixed", "0x200,$3FE", []uint16{0x200, 0x3FE}},
		{"spaces", "200, 204", []uint16{0x200, 0x204}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBreakpoints(tt.input)
			assert.NoError(t, err)
			assert.True(t, slices.Equal(tt.expected, got))
		})
	}
}

func TestPrintBanner(t *testing.T) {
	logger := log.NewTestLogger(t)

	PrintBanner(logger, options.Program{}, "1.0.0", "abcdef1234", "2026-01-01")
	PrintBanner(logger, options.Program{Flags: options.Flags{Quiet: true}}, "1.0.0", "", "")
}
