// Package recorder reads chat lines typed at the admin console or stored in
// a replay file.
package recorder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrStop is returned by a line callback to end reading without an error.
var ErrStop = errors.New("stop reading")

// end-of-input markers some consoles produce for Ctrl+Z
var eofMarkers = []string{"\x1A", "^Z"}

// sentinels that end a console session when typed on their own
var sentinels = map[string]bool{":end": true, ":quit": true}

// Each calls fn with every line of r that is neither blank nor a '#'
// comment, trimmed of surrounding whitespace. Reading ends at EOF, at an
// end-of-input marker (text after it on the same line is dropped), at a
// sentinel line, or when fn returns an error. ErrStop from fn is not
// reported.
func Each(r io.Reader, fn func(line string) error) error {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		line, stop := cut(s.Text())
		line = strings.TrimSpace(line)
		if sentinels[line] {
			return nil
		}
		if line != "" && !strings.HasPrefix(line, "#") {
			if err := fn(line); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}
		}
		if stop {
			return nil
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("read lines: %w", err)
	}
	return nil
}

// ReadLines collects the lines Each would deliver.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	err := Each(r, func(line string) error {
		out = append(out, line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// cut truncates line at the first end-of-input marker.
func cut(line string) (string, bool) {
	for _, m := range eofMarkers {
		if i := strings.Index(line, m); i >= 0 {
			return line[:i], true
		}
	}
	return line, false
}
