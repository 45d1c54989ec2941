// Package loader handles ROM file loading operations.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/options"
)

// Loader handles opening ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load opens the ROM file named in the options. The returned reader supplies
// the raw program bytes and has to be closed by the caller.
func (l *Loader) Load(opts options.Program) (io.ReadCloser, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("reading file info of %s: %w", opts.Input, err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("opening file %s: is a directory", opts.Input)
	}

	return file, nil
}
