package utils

import (
	"fmt"
	"io"
	"os"
)

// ReadStdin reads standard input to EOF and returns it unmodified.
// When stdin is a terminal this blocks until the user ends input with
// Ctrl-D, which lets the message be typed interactively.
func ReadStdin() ([]byte, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	return data, nil
}
