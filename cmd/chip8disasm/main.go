// Package main implements a standalone CHIP-8 ROM disassembler
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrogolib/buildinfo"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type optionFlags struct {
	input  string
	output string
	quiet  bool
}

func main() {
	options := readArguments()

	if !options.quiet {
		printBanner(options)
	}

	if err := disasmFile(options); err != nil {
		fmt.Println(fmt.Errorf("disassembling failed: %w", err))
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.StringVar(&options.output, "o", "", "name of the output .asm file, printed on console if no name given")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) == 0 {
		printBanner(options)
		fmt.Printf("usage: chip8disasm [options] <file to disassemble>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]

	return options
}

func printBanner(options optionFlags) {
	if !options.quiet {
		fmt.Println("[---------------------------------------]")
		fmt.Println("[ chip8disasm - CHIP-8 ROM disassembler ]")
		fmt.Printf("[---------------------------------------]\n\n")
		fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
	}
}

func disasmFile(options optionFlags) error {
	file, err := os.Open(options.input)
	if err != nil {
		return fmt.Errorf("opening file '%s': %w", options.input, err)
	}

	rom, err := chip8.ReadProgram(file)
	_ = file.Close()
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var outputFile io.WriteCloser
	if options.output == "" {
		outputFile = os.Stdout
	} else {
		outputFile, err = os.Create(options.output)
		if err != nil {
			return fmt.Errorf("creating file '%s': %w", options.output, err)
		}
	}
	if err = disasm.Listing(outputFile, rom, chip8.ProgramStart); err != nil {
		_ = outputFile.Close()
		return fmt.Errorf("processing file: %w", err)
	}
	if err = outputFile.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	return nil
}
