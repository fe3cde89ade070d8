package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirm asks a yes/no question on stdin. Pressing Enter picks the default.
// Piped answers are read the same way; an empty or closed stdin picks the
// default.
func Confirm(prompt string, defaultYes bool) (bool, error) {
	return confirmFrom(os.Stdin, os.Stdout, prompt, defaultYes)
}

func confirmFrom(in io.Reader, out io.Writer, prompt string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(out, "%s %s ", prompt, hint)

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read input: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
