package nameutil

import "testing"

func TestValidateTrigger(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"!8ball", true},
		{"!quote add", true},
		{"8ball", false},
		{"!", false},
		{"  ", false},
		{"!bad\x00", false},
		{" !pad", false},
		{string([]byte{'!', 0xff, 0xff}), false},
	}
	for _, c := range cases {
		err := ValidateTrigger(c.in)
		if c.ok && err != nil {
			t.Fatalf("ValidateTrigger(%q): unexpected error %v", c.in, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("ValidateTrigger(%q): expected error", c.in)
		}
	}
}

func TestValidateVariableName(t *testing.T) {
	if err := ValidateVariableName("count"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateVariableName("two words"); err == nil {
		t.Fatalf("expected error for whitespace")
	}
	if err := ValidateVariableName(""); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestSanitizeName(t *testing.T) {
	if s, changed := SanitizeName("hello\x00world"); s != "helloworld" || !changed {
		t.Fatalf("expected NUL removed: got %q changed=%v", s, changed)
	}
	if s, changed := SanitizeName(" a \u200B b "); s != "a  b" || !changed {
		t.Fatalf("expected zero-width removed and trimmed: got %q changed=%v", s, changed)
	}
	if s, changed := SanitizeName("!8ball"); s != "!8ball" || changed {
		t.Fatalf("expected clean name untouched: got %q changed=%v", s, changed)
	}
}
