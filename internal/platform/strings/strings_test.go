package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	// non-empty slice should be returned as-is
	in := []string{"https://notes.local"}
	got := IfEmpty(in, []string{"*"})
	if len(got) != 1 || got[0] != "https://notes.local" {
		t.Fatalf("IfEmpty returned wrong slice: %#v", got)
	}

	// empty slice should fall back to default
	var empty []string
	got = IfEmpty(empty, []string{"*"})
	if len(got) != 1 || got[0] != "*" {
		t.Fatalf("IfEmpty did not return default: %#v", got)
	}
}

func TestSQLNull(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want any
	}{
		{"", nil},
		{"  \t", nil},
		{"cap_123", "cap_123"},
		{" padded ", " padded "},
	}
	for _, c := range cases {
		if got := SQLNull(c.in); got != c.want {
			t.Errorf("SQLNull(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}
