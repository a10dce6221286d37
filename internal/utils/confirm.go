// Package utils provides small helpers for interactive commands.
package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm writes msg to out and reads a y/n answer from in. Anything other
// than "y" or "yes" (including EOF) is a no.
func Confirm(msg string, in io.Reader, out io.Writer) bool {
	fmt.Fprintf(out, "%s [y/N]: ", msg)
	line, _ := bufio.NewReader(in).ReadString('\n')
	resp := strings.TrimSpace(strings.ToLower(line))
	return resp == "y" || resp == "yes"
}
