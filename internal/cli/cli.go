// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ParseFlags parses command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	return parseArgs(os.Args[0], os.Args[1:])
}

func parseArgs(name string, arguments []string) (options.Program, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	opts := options.Program{
		Emulation: options.NewEmulation(),
	}
	var breakpoints string
	readOptionFlags(flags, &opts, &breakpoints)

	err := flags.Parse(arguments)
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}
	opts.Input = args[0]

	opts.Breakpoints, err = parseBreakpoints(breakpoints)
	if err != nil {
		return opts, err
	}

	if err := validateOptions(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage and flag defaults.
func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("%s\n\n", e.msg)
	}
	fmt.Printf("usage: retrochip8 [options] <ROM file to run>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs rejects flags that follow the ROM file, the flag package
// stops parsing at the first positional argument and would ignore them.
func validateArgs(args []string) error {
	for _, arg := range args[1:] {
		if strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("flag %s is ignored after the ROM file %s, pass options before the ROM file", arg, args[0]),
			}
		}
	}
	return nil
}

// validateOptions checks option values for consistency.
func validateOptions(opts options.Program) error {
	if opts.InstructionsPerSecond <= 0 {
		return fmt.Errorf("invalid instructions per second %d: must be positive", opts.InstructionsPerSecond)
	}
	if opts.FramesPerSecond <= 0 {
		return fmt.Errorf("invalid frames per second %d: must be positive", opts.FramesPerSecond)
	}
	if opts.Frames < 0 {
		return fmt.Errorf("invalid frame count %d: must not be negative", opts.Frames)
	}
	return nil
}

// parseBreakpoints parses a comma separated list of hexadecimal addresses.
func parseBreakpoints(s string) ([]uint16, error) {
	if s == "" {
		return nil, nil
	}

	var addresses []uint16
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		field = strings.TrimPrefix(strings.TrimPrefix(field, "0x"), "$")

		address, err := strconv.ParseUint(field, 16, 12)
		if err != nil {
			return nil, fmt.Errorf("parsing breakpoint address '%s': %w", field, err)
		}
		addresses = append(addresses, uint16(address))
	}
	return addresses, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program, breakpoints *string) {
	flags.StringVar(&opts.Dump, "dump", "", "write a framebuffer snapshot to the given file on exit, - for console output")
	flags.StringVar(&opts.System, "s", "", "system of the ROM (chip8) - if not auto-detected from file extension")
	flags.StringVar(breakpoints, "break", "", "comma separated hex addresses to stop execution at, for example 2a4,300")
	flags.IntVar(&opts.InstructionsPerSecond, "ips", options.DefaultInstructionsPerSecond, "instructions executed per second")
	flags.IntVar(&opts.FramesPerSecond, "fps", options.DefaultFramesPerSecond, "display frames per second, timers tick once per frame")
	flags.IntVar(&opts.Frames, "frames", 0, "number of frames to run, 0 runs until the program faults or is interrupted")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed for the random number generator, 0 uses a random seed")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly listing of the ROM instead of running it")
	flags.BoolVar(&opts.Fast, "fast", false, "run frames as fast as possible instead of at the frame rate")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

// PrintBanner logs application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("retrochip8", log.String("version", buildinfo.Version(version, commit, date)))
}
