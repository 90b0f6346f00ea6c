package normalize

import "testing"

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"identity", "Call the dentist", "Call the dentist"},
		{"keeps case", "Buy MILK", "Buy MILK"},
		{"drops invalid bytes", string([]byte{0xff, 'f', 'o', 'o', 0x80, ' ', 'b', 'a', 'r'}), "foo bar"},
		{"drops controls", "a\x00b\x07c\x7f", "abc"},
		{"composes", "cafe\u0301", "caf\u00e9"},
		{"collapses spaces", "  a\t\tb   c  ", "a b c"},
		{"keeps line breaks", "one\n\n  two", "one\ntwo"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Text(tc.in); got != tc.out {
				t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestLine(t *testing.T) {
	t.Parallel()
	if got := Line("one\ntwo   three"); got != "one two three" {
		t.Fatalf("Line = %q", got)
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in  string
		out string
	}{
		{"Call the Dentist!", "call the dentist"},
		{"ＦＵＬＬ width", "full width"},
		{"caf\u00e9 au lait", "cafe au lait"},
		{"cafe\u0301 au lait", "cafe au lait"},
		{"zero\u200bwidth", "zerowidth"},
		{"oﬃce hours", "office hours"},
		{"#action  do-it", "action do it"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Key(tc.in); got != tc.out {
			t.Fatalf("Key(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestContains(t *testing.T) {
	t.Parallel()

	if !Contains("- [ ] #action Call the DENTIST #personal", "call the dentist") {
		t.Fatalf("expected containment")
	}
	if Contains("Call the dentist", "dent") {
		t.Fatalf("partial word should not match")
	}
	if Contains("anything", "  ") {
		t.Fatalf("blank needle should not match")
	}
}

func TestSanitize_FastPath(t *testing.T) {
	t.Parallel()
	in := "plain ascii\twith tab"
	if got := Sanitize(in); got != in {
		t.Fatalf("Sanitize changed clean input: %q", got)
	}
}
