// Package nameutil validates and cleans the names users give to commands and
// variables from chat.
package nameutil

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TriggerPrefix is the prefix every command trigger must carry.
const TriggerPrefix = "!"

// ValidateTrigger checks whether s is acceptable as a command trigger. A
// trigger starts with TriggerPrefix, has something after it, and contains no
// control characters. Inner spaces are allowed so that multi-word triggers
// like "!quote add" can be stored.
func ValidateTrigger(s string) error {
	if err := validatePrintable("trigger", s); err != nil {
		return err
	}
	if !strings.HasPrefix(s, TriggerPrefix) || len(s) == len(TriggerPrefix) {
		return fmt.Errorf("invalid trigger %q: must start with %q", s, TriggerPrefix)
	}
	if s != strings.TrimSpace(s) {
		return fmt.Errorf("invalid trigger %q: surrounding whitespace", s)
	}
	return nil
}

// ValidateVariableName checks whether s is acceptable as a variable name.
// Variable names are single words because scripts address them as strings
// and chat commands split on spaces.
func ValidateVariableName(s string) error {
	if err := validatePrintable("variable name", s); err != nil {
		return err
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return fmt.Errorf("invalid variable name %q: contains whitespace", s)
	}
	return nil
}

func validatePrintable(what, s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("invalid %s: cannot be empty", what)
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("invalid %s: contains invalid encoding", what)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("invalid %s: contains control character U+%04X (%q)", what, r, r)
		}
	}
	return nil
}

// SanitizeName removes control and zero-width characters commonly picked up
// by copy/paste (e.g., U+200B) and trims surrounding whitespace. It reports
// whether anything changed.
func SanitizeName(name string) (string, bool) {
	if name == "" {
		return name, false
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsControl(r) {
			continue
		}
		switch r {
		case '\u200B', '\u200C', '\u200D', '\uFEFF':
			continue
		}
		b.WriteRune(r)
	}
	res := strings.TrimSpace(b.String())
	return res, res != name
}
